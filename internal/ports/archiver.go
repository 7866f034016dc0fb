package ports

// SymlinkPolicy controls how an Archiver treats symbolic links.
type SymlinkPolicy string

const (
	// SymlinkFollow archives links to regular files with the target's content.
	// Linked directories are never descended.
	SymlinkFollow SymlinkPolicy = "follow"
	// SymlinkSkip leaves every symlink out of the archive.
	SymlinkSkip SymlinkPolicy = "skip"
)

// ArchiveOptions tunes what Create puts in the archive.
type ArchiveOptions struct {
	// Exclude is a list of base-name patterns to skip (e.g., "node_modules", "*.pyc").
	Exclude []string
	// Symlinks selects the symlink policy. Empty means SymlinkFollow.
	Symlinks SymlinkPolicy
}

// Archiver abstracts zip archive operations for testability.
// Production code uses ZipArchiver adapter; tests use MockArchiver.
type Archiver interface {
	// Create creates a deflate-compressed zip archive of sourceDir at destPath.
	// Entries are named by their slash-separated path relative to sourceDir.
	// Returns the number of files archived. On error, Create removes any
	// output it wrote and leaves a pre-existing destPath untouched if it
	// failed before opening it.
	Create(destPath, sourceDir string, opts ArchiveOptions) (fileCount int, err error)

	// List returns a map of entry names to their info from the archive.
	List(zipPath string) (map[string]FileInfo, error)
}

// FileInfo contains metadata about a file in an archive.
type FileInfo struct {
	Size  int64
	CRC32 uint32
}
