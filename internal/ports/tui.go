package ports

import (
	"time"

	"github.com/jmcdonald/folderup/internal/config"
)

// TUIUploadRequest contains the three form fields of the uploader tab.
type TUIUploadRequest struct {
	Folder string
	Token  string
	RepoID string
}

// TUIUploadResult contains the result of an upload operation.
type TUIUploadResult struct {
	Status  string // Human-readable status line
	Archive string
	RepoID  string
	Size    int64
	Error   error
}

// TUIHistoryEntry contains a past upload for display.
type TUIHistoryEntry struct {
	Archive    string
	RepoID     string
	Size       int64
	FileCount  int
	CommitURL  string
	UploadedAt time.Time
}

// TUIService provides operations needed by the TUI.
// This abstraction allows the TUI to be tested without real filesystem/network operations.
type TUIService interface {
	// LoadConfig loads the application configuration.
	LoadConfig() (*config.Config, error)

	// Upload zips the folder and publishes it to the repository.
	Upload(cfg *config.Config, req TUIUploadRequest) TUIUploadResult

	// History returns past uploads, newest first.
	History(cfg *config.Config) ([]TUIHistoryEntry, error)
}
