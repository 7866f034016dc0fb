package mocks

import (
	"github.com/jmcdonald/folderup/internal/config"
	"github.com/jmcdonald/folderup/internal/ports"
)

// MockTUIService implements ports.TUIService for testing.
type MockTUIService struct {
	// ConfigResult is the config to return from LoadConfig
	ConfigResult *config.Config
	// ConfigError is the error to return from LoadConfig
	ConfigError error

	// UploadResult is returned by Upload
	UploadResult ports.TUIUploadResult

	// Entries is returned by History
	Entries []ports.TUIHistoryEntry
	// HistoryError is the error to return from History
	HistoryError error

	// Call tracking
	LoadConfigCalls int
	UploadCalls     []ports.TUIUploadRequest
	HistoryCalls    int
}

// NewMockTUIService creates a new mock TUI service.
func NewMockTUIService() *MockTUIService {
	return &MockTUIService{
		ConfigResult: &config.Config{},
	}
}

// LoadConfig loads the application configuration.
func (m *MockTUIService) LoadConfig() (*config.Config, error) {
	m.LoadConfigCalls++
	if m.ConfigError != nil {
		return nil, m.ConfigError
	}
	return m.ConfigResult, nil
}

// Upload records the request and returns UploadResult.
func (m *MockTUIService) Upload(cfg *config.Config, req ports.TUIUploadRequest) ports.TUIUploadResult {
	m.UploadCalls = append(m.UploadCalls, req)
	return m.UploadResult
}

// History returns Entries.
func (m *MockTUIService) History(cfg *config.Config) ([]ports.TUIHistoryEntry, error) {
	m.HistoryCalls++
	if m.HistoryError != nil {
		return nil, m.HistoryError
	}
	return m.Entries, nil
}

// Compile-time check that MockTUIService implements ports.TUIService.
var _ ports.TUIService = (*MockTUIService)(nil)
