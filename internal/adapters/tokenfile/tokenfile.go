// Package tokenfile stores the hub access token in a plain file, at the same
// location the huggingface_hub tooling uses so both can share a login.
package tokenfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmcdonald/folderup/internal/ports"
)

// Environment variables consulted by DefaultPath, in order.
const (
	EnvTokenPath = "HF_TOKEN_PATH"
	EnvHFHome    = "HF_HOME"
	EnvXDGCache  = "XDG_CACHE_HOME"
)

// DefaultPath resolves the token file location:
// $HF_TOKEN_PATH, else $HF_HOME/token, else $XDG_CACHE_HOME/huggingface/token,
// else ~/.cache/huggingface/token.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvTokenPath); p != "" {
		return p, nil
	}
	if h := os.Getenv(EnvHFHome); h != "" {
		return filepath.Join(h, "token"), nil
	}
	if c := os.Getenv(EnvXDGCache); c != "" {
		return filepath.Join(c, "huggingface", "token"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving token path: %w", err)
	}
	return filepath.Join(home, ".cache", "huggingface", "token"), nil
}

// Store implements ports.CredentialStore on a single file.
type Store struct {
	path string
}

// New creates a store at path. An empty path uses DefaultPath.
func New(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{path: path}, nil
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the token with owner-only permissions.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to store an empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}

	// Write to a sibling file and rename so a crash never leaves a torn token
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing token: %w", err)
	}
	return nil
}

// Load returns the stored token, or ports.ErrNoToken.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ports.ErrNoToken
		}
		return "", fmt.Errorf("reading token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ports.ErrNoToken
	}
	return token, nil
}

// Delete removes the token file.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}

// Compile-time check that Store implements ports.CredentialStore.
var _ ports.CredentialStore = (*Store)(nil)
