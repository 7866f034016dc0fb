// Package ziparchiver provides an archiver adapter on klauspost/compress/zip.
package ziparchiver

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/jmcdonald/folderup/internal/ports"
)

// ZipArchiver implements ports.Archiver.
type ZipArchiver struct{}

// New creates a new ZipArchiver adapter.
func New() *ZipArchiver {
	return &ZipArchiver{}
}

// shouldExclude checks if a path should be excluded based on patterns.
func shouldExclude(path string, excludePatterns []string) bool {
	base := filepath.Base(path)
	for _, pattern := range excludePatterns {
		// Check exact match
		if base == pattern {
			return true
		}
		// Check glob pattern
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// resolveEntry decides whether path goes into the archive and returns the
// FileInfo to build its header from. A nil info means skip.
func resolveEntry(path string, d fs.DirEntry, policy ports.SymlinkPolicy) (os.FileInfo, error) {
	mode := d.Type()
	switch {
	case mode&fs.ModeSymlink != 0:
		if policy == ports.SymlinkSkip {
			return nil, nil
		}
		target, err := os.Stat(path)
		if err != nil {
			// Dangling link
			return nil, nil
		}
		if !target.Mode().IsRegular() {
			// Linked directories are not descended
			return nil, nil
		}
		return target, nil
	case mode.IsRegular():
		return d.Info()
	default:
		// Devices, sockets, named pipes
		return nil, nil
	}
}

// Create creates a zip archive of sourceDir at destPath.
// Returns the number of files archived. On error, a file Create opened at
// destPath is removed; anything it never opened is left alone.
func (a *ZipArchiver) Create(destPath, sourceDir string, opts ports.ArchiveOptions) (count int, err error) {
	absDest, err := filepath.Abs(destPath)
	if err != nil {
		return 0, fmt.Errorf("resolving archive path: %w", err)
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(absDest)); err == nil {
		absDest = filepath.Join(dir, filepath.Base(absDest))
	}

	// A symlinked source folder is archived as the directory it points to
	root, err := filepath.EvalSymlinks(sourceDir)
	if err != nil {
		return 0, err
	}

	zipFile, err := os.Create(destPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	w := zip.NewWriter(zipFile)
	fileCount := 0

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != root && shouldExclude(path, opts.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil // Directories are created implicitly
		}

		// Never archive the archive into itself
		if absPath, err := filepath.Abs(path); err == nil && absPath == absDest {
			return nil
		}

		info, err := resolveEntry(path, d, opts.Symlinks)
		if err != nil {
			return err
		}
		if info == nil {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("%s: %w", relPath, err)
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		if err := addFile(w, header, path); err != nil {
			return fmt.Errorf("%s: %w", relPath, err)
		}

		fileCount++
		return nil
	})

	// Close zip writer first to flush data
	if closeErr := w.Close(); closeErr != nil {
		_ = zipFile.Close() // Best effort cleanup on error path
		if walkErr != nil {
			return 0, walkErr
		}
		return 0, fmt.Errorf("closing zip writer: %w", closeErr)
	}

	// Then close the file
	if closeErr := zipFile.Close(); closeErr != nil {
		return 0, fmt.Errorf("closing zip file: %w", closeErr)
	}

	if walkErr != nil {
		return 0, walkErr
	}
	return fileCount, nil
}

func addFile(w *zip.Writer, header *zip.FileHeader, path string) error {
	writer, err := w.CreateHeader(header)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, err = io.Copy(writer, file)
	return err
}

// List returns a map of entry names to their info from the archive.
func (a *ZipArchiver) List(zipPath string) (map[string]ports.FileInfo, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	files := make(map[string]ports.FileInfo)
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// Safe conversion: check for overflow before uint64 -> int64
		size := int64(0)
		if f.UncompressedSize64 <= math.MaxInt64 {
			size = int64(f.UncompressedSize64)
		}
		files[f.Name] = ports.FileInfo{
			Size:  size,
			CRC32: f.CRC32,
		}
	}

	return files, nil
}

// Compile-time check that ZipArchiver implements ports.Archiver.
var _ ports.Archiver = (*ZipArchiver)(nil)
