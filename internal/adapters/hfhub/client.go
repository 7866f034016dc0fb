// Package hfhub provides a Hugging Face Hub client implementing ports.Hub.
package hfhub

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmcdonald/folderup/internal/ports"
)

// DefaultEndpoint is the public hub.
const DefaultEndpoint = "https://huggingface.co"

// Client talks to the hub over HTTP. Requests are never retried.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint sets the hub base URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a hub client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{},
		logger:     slog.Default(),
		userAgent:  "folderup",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Endpoint returns the hub base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// request describes one HTTP exchange.
type request struct {
	method      string
	url         string
	token       string
	contentType string
	accept      string
	header      map[string]string
	body        io.Reader
	size        int64 // Content length when body is a stream; -1 if unknown
}

// do performs a request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if r.size >= 0 && r.body != nil {
		req.ContentLength = r.size
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range r.header {
		req.Header.Set(k, v)
	}

	safeURL := redactURL(r.url)
	start := time.Now()
	c.logger.Debug("hub request", "method", r.method, "url", safeURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = safeURL
		}
		c.logger.Warn("hub request failed", "method", r.method, "url", safeURL, "error", err)
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("hub response",
		"method", r.method,
		"url", safeURL,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(r.method, r.url, resp, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", safeURL, err)
	}
	return nil
}

// postJSON marshals in and posts it.
func (c *Client) postJSON(ctx context.Context, url, token, contentType string, header map[string]string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/json"
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		url:         url,
		token:       token,
		contentType: contentType,
		accept:      contentType,
		header:      header,
		body:        bytes.NewReader(data),
		size:        int64(len(data)),
	}, out)
}

type whoAmIResponse struct {
	Name     string `json:"name"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Orgs     []struct {
		Name string `json:"name"`
	} `json:"orgs"`
}

// WhoAmI returns the account a token belongs to.
func (c *Client) WhoAmI(ctx context.Context, token string) (ports.Account, error) {
	var resp whoAmIResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		url:    c.endpoint + "/api/whoami-v2",
		token:  token,
		accept: "application/json",
		size:   -1,
	}, &resp)
	if err != nil {
		return ports.Account{}, err
	}

	acct := ports.Account{Name: resp.Name, FullName: resp.FullName, Email: resp.Email}
	for _, o := range resp.Orgs {
		acct.Orgs = append(acct.Orgs, o.Name)
	}
	return acct, nil
}

// Compile-time check that Client implements ports.Hub.
var _ ports.Hub = (*Client)(nil)
