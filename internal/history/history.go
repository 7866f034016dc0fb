// Package history keeps a local log of published archives.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type Entry struct {
	Archive    string    `json:"archive"`
	Folder     string    `json:"folder"`
	RepoID     string    `json:"repo_id"`
	SHA256     string    `json:"sha256,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	FileCount  int       `json:"file_count"`
	CommitURL  string    `json:"commit_url,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Log struct {
	Uploads []Entry `json:"uploads"`
}

func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Log{Uploads: []Entry{}}, nil
		}
		return nil, err
	}

	var l Log
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	if l.Uploads == nil {
		l.Uploads = []Entry{}
	}

	return &l, nil
}

func (l *Log) Save(path string) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (l *Log) Add(entry Entry) {
	l.Uploads = append(l.Uploads, entry)
}

func (l *Log) Latest() *Entry {
	if len(l.Uploads) == 0 {
		return nil
	}
	return &l.Uploads[len(l.Uploads)-1]
}

// Newest returns entries newest first.
func (l *Log) Newest() []Entry {
	out := make([]Entry, len(l.Uploads))
	for i, e := range l.Uploads {
		out[len(l.Uploads)-1-i] = e
	}
	return out
}

// Prune drops the oldest entries beyond keepLast and returns how many went.
// keepLast <= 0 keeps everything.
func (l *Log) Prune(keepLast int) int {
	if keepLast <= 0 || len(l.Uploads) <= keepLast {
		return 0
	}

	// Entries are ordered oldest to newest
	toRemove := len(l.Uploads) - keepLast
	l.Uploads = l.Uploads[toRemove:]
	return toRemove
}

// FileRecorder appends entries to the log file at Path.
type FileRecorder struct {
	Path     string
	KeepLast int
}

// Record loads the log, appends entry, prunes and saves.
func (r *FileRecorder) Record(entry Entry) error {
	l, err := Load(r.Path)
	if err != nil {
		return err
	}
	l.Add(entry)
	l.Prune(r.KeepLast)
	return l.Save(r.Path)
}
