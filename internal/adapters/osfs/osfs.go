// Package osfs provides a filesystem adapter using the standard library os package.
package osfs

import (
	"os"

	"github.com/jmcdonald/folderup/internal/ports"
)

// OSFileSystem implements ports.FileSystem using the standard library.
type OSFileSystem struct{}

// New creates a new OSFileSystem adapter.
func New() *OSFileSystem {
	return &OSFileSystem{}
}

func (f *OSFileSystem) Stat(name string) (os.FileInfo, error) { return os.Stat(name) }
func (f *OSFileSystem) Getwd() (string, error)                { return os.Getwd() }
func (f *OSFileSystem) ReadFile(name string) ([]byte, error)  { return os.ReadFile(name) }
func (f *OSFileSystem) Remove(name string) error              { return os.Remove(name) }

func (f *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (f *OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Compile-time check that OSFileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*OSFileSystem)(nil)
