package publish

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies why a publish failed.
type Kind int

const (
	KindNone Kind = iota
	KindCredential
	KindFolderNotFound
	KindArchive
	KindTransmission
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindCredential:
		return "credential"
	case KindFolderNotFound:
		return "folder-not-found"
	case KindArchive:
		return "archive"
	case KindTransmission:
		return "transmission"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a publish failure with its variant and the step that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, or KindNone.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindNone
}

// ErrNotDirectory is reported when the folder path names a regular file.
var ErrNotDirectory = errors.New("not a directory")

// Request is one archive-and-publish invocation.
type Request struct {
	Folder string
	Token  string
	RepoID string
}

// Result is the outcome of Publish. Err is nil on success.
type Result struct {
	Folder    string
	Archive   string // Derived archive name, e.g. "data.zip"
	RepoID    string
	FileCount int
	Size      int64
	SHA256    string
	CommitURL string
	Kept      bool // Local archive left on disk
	Duration  time.Duration
	Err       error
}

// OK reports whether the publish succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Kind returns the failure variant.
func (r Result) Kind() Kind { return KindOf(r.Err) }

// Status renders the one-line message shown to the user.
func (r Result) Status() string {
	var pe *Error
	if r.Err != nil && !errors.As(r.Err, &pe) {
		return fmt.Sprintf("An error occurred: %v", r.Err)
	}

	switch r.Kind() {
	case KindNone:
		return fmt.Sprintf("Folder successfully uploaded as %s to Hugging Face repository: %s", r.Archive, r.RepoID)
	case KindCredential:
		return fmt.Sprintf("Error %s: %v", pe.Op, pe.Err)
	case KindFolderNotFound:
		return fmt.Sprintf("Error: Folder does not exist: %s", r.Folder)
	default:
		return fmt.Sprintf("An error occurred: %v", r.Err)
	}
}

// FormatSize renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
