package ports

import "errors"

// ErrNoToken is returned by CredentialStore.Load when nothing is stored.
var ErrNoToken = errors.New("no access token stored")

// CredentialStore persists the hosting service access token.
// Production code uses tokenfile.Store; tests use MockCredentialStore.
type CredentialStore interface {
	// Save stores the token, replacing any previous one.
	Save(token string) error

	// Load returns the stored token or ErrNoToken.
	Load() (string, error)

	// Delete removes the stored token. Deleting a missing token is not an error.
	Delete() error

	// Path returns where the token lives, for display.
	Path() string
}
