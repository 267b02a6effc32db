// Package fs provides a small filesystem abstraction for the document store.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the store needs
//   - [Real]: production implementation using the [os] package
//
// Injecting an [FS] keeps the store decoupled from the host filesystem so
// tests can substitute failing or recording implementations.
package fs

import (
	"os"
)

// FS defines the filesystem operations the document store performs.
//
// All methods mirror their [os] package equivalents. Paths use OS semantics
// (like the os package and path/filepath), not the slash-separated paths of
// the standard library io/fs package.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	//
	// The file either has its old contents or the complete new contents,
	// never a partial write. Parent directories must already exist.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries sorted by name.
	// See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	// No error if the directory already exists.
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// RemoveAll deletes a path and any children. See [os.RemoveAll].
	// No error if the path doesn't exist.
	RemoveAll(path string) error
}
