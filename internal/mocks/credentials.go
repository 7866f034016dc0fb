package mocks

import "github.com/jmcdonald/folderup/internal/ports"

// MockCredentialStore implements ports.CredentialStore in memory.
type MockCredentialStore struct {
	Token     string
	SaveErr   error
	LoadErr   error
	DeleteErr error
	Location  string

	// Call tracking
	SaveCalls   []string
	LoadCalls   int
	DeleteCalls int
}

// NewMockCredentialStore creates an empty store.
func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{Location: "/mock/token"}
}

func (m *MockCredentialStore) Save(token string) error {
	m.SaveCalls = append(m.SaveCalls, token)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Token = token
	return nil
}

func (m *MockCredentialStore) Load() (string, error) {
	m.LoadCalls++
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	if m.Token == "" {
		return "", ports.ErrNoToken
	}
	return m.Token, nil
}

func (m *MockCredentialStore) Delete() error {
	m.DeleteCalls++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Token = ""
	return nil
}

func (m *MockCredentialStore) Path() string { return m.Location }

// Compile-time check that MockCredentialStore implements ports.CredentialStore.
var _ ports.CredentialStore = (*MockCredentialStore)(nil)
