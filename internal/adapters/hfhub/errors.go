package hfhub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var (
	// ErrUnauthorized means the token was missing, invalid or lacks write access.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the repository or revision does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the commit conflicted with the repository state.
	ErrConflict = errors.New("conflict")
	// ErrUnsupportedTransfer means the hub asked for a multipart LFS upload.
	ErrUnsupportedTransfer = errors.New("multipart LFS transfer not supported")
)

// StatusError is a non-2xx response from the hub.
type StatusError struct {
	Method     string
	URL        string // Query string removed

	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, msg)
}

// Unwrap maps well-known status codes onto sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

const maxErrorBody = 512

func newStatusError(method, rawURL string, resp *http.Response, body []byte) *StatusError {
	e := &StatusError{Method: method, URL: redactURL(rawURL), StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	switch {
	case json.Unmarshal(body, &payload) == nil && payload.Error != "":
		e.Message = payload.Error
	case resp.Header.Get("X-Error-Message") != "":
		e.Message = resp.Header.Get("X-Error-Message")
	default:
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody] + "..."
		}
		e.Message = msg
	}
	return e
}

// redactURL drops the query, fragment and userinfo from rawURL. Presigned
// storage URLs carry their signature in the query.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil
	return u.String()
}
