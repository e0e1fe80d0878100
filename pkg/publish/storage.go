package publish

import "context"

// Entry represents a stored file or directory entry.
type Entry struct {
	Name  string
	Path  string
	IsDir bool
	Size  int64
}

// Storage abstracts where build outputs are shipped to.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Put stores data under path with the given content type.
	Put(ctx context.Context, path string, data []byte, contentType string) error
	// Get reads the content stored under path.
	Get(ctx context.Context, path string) ([]byte, error)
	// Exists checks if a file or directory exists.
	Exists(ctx context.Context, path string) bool
	// List returns all entries directly under dir (non-recursive).
	List(ctx context.Context, dir string) ([]Entry, error)
	// Delete removes a single file.
	Delete(ctx context.Context, path string) error
	// DeleteDir removes a directory and all its contents.
	DeleteDir(ctx context.Context, path string) error
	// URL returns the public URL for a file.
	URL(path string) string
}
