package mocks

import (
	"github.com/jmcdonald/folderup/internal/ports"
)

// MockArchiver implements ports.Archiver for testing.
type MockArchiver struct {
	// CreateCalls records calls to Create
	CreateCalls []CreateCall
	// ListResults maps zip paths to file listings
	ListResults map[string]map[string]ports.FileInfo
	// Errors maps method calls to errors
	Errors map[string]error
	// CreateResult is the default file count to return
	CreateResult int
	// CreateContent is written to FS at destPath by Create
	CreateContent []byte
	// FS, when set, receives the archive file Create produces
	FS *MockFileSystem
}

// CreateCall records parameters of a Create call.
type CreateCall struct {
	DestPath  string
	SourceDir string
	Options   ports.ArchiveOptions
}

// NewMockArchiver creates a new mock archiver.
func NewMockArchiver() *MockArchiver {
	return &MockArchiver{
		ListResults:   make(map[string]map[string]ports.FileInfo),
		Errors:        make(map[string]error),
		CreateResult:  1, // Default to 1 file
		CreateContent: []byte("PK\x05\x06"),
	}
}

// Create records the call and materializes the archive in FS on success.
// A failing Create leaves FS untouched.
func (m *MockArchiver) Create(destPath, sourceDir string, opts ports.ArchiveOptions) (int, error) {
	m.CreateCalls = append(m.CreateCalls, CreateCall{
		DestPath:  destPath,
		SourceDir: sourceDir,
		Options:   opts,
	})
	err, failed := m.Errors["Create"]
	if m.FS != nil && !failed {
		m.FS.Files[destPath] = m.CreateContent
	}
	if failed {
		return 0, err
	}
	return m.CreateResult, nil
}

// List returns a map of entry names to their info from the archive.
func (m *MockArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	if err, ok := m.Errors["List"]; ok {
		return nil, err
	}
	if result, ok := m.ListResults[zipPath]; ok {
		return result, nil
	}
	return make(map[string]ports.FileInfo), nil
}

// Compile-time check that MockArchiver implements ports.Archiver.
var _ ports.Archiver = (*MockArchiver)(nil)
