// Package fs provides the filesystem abstraction used by every command that
// reads or rewrites content files.
//
// The main types are:
//   - [FS]: interface for the filesystem operations the pipeline needs
//   - [Real]: production implementation using [os] and atomic renames
//   - [Faulty]: testing implementation that injects failures per operation
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("content/core_x/v1/drills.jsonl")
//	if err != nil {
//	    return err
//	}
package fs

import (
	"os"
)

// FS defines the filesystem operations used by the normalizers.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a sibling temp file + rename so readers never observe a
	// partially written file.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	// Entries are sorted by name.
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}
