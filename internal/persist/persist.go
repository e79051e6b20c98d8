// Package persist commits normalized file content to disk.
//
// Normalizers never write files themselves: they hand the pre-image they read
// and the content they want to a [Durable]. The default implementation,
// [BackupWriter], keeps one backup of the pre-image next to the target and
// replaces the target with an atomic rename.
package persist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/calvinalkan/contentfix/internal/fs"
)

// DefaultBackupSuffix is appended to the target path to name its backup.
const DefaultBackupSuffix = ".bak"

const (
	defaultPerm = 0o644
	dirPerm     = 0o755
)

var (
	// ErrBackup indicates the pre-image could not be preserved. The target is untouched.
	ErrBackup = errors.New("backup failed")
	// ErrReplace indicates the target could not be replaced. A backup may exist.
	ErrReplace = errors.New("replace failed")
)

// Durable is a scoped durable write with pre-image preservation.
//
// Commit replaces the file at path with updated when it differs from original.
// original is the content the caller read from path (nil or empty for a file
// that does not exist yet).
type Durable interface {
	Commit(path string, original, updated []byte) (Outcome, error)
}

// Outcome reports what a commit did.
type Outcome struct {
	// Written is true when the target was replaced.
	Written bool
	// BackupPath is the backup created by this commit, empty if none was created.
	BackupPath string
}

// BackupWriter implements [Durable] with a sibling backup file and an atomic
// rename. At most one backup is ever created per target: an existing backup
// is never overwritten, so it always holds the oldest pre-image.
type BackupWriter struct {
	fs     fs.FS
	suffix string
}

// NewBackupWriter returns a BackupWriter. An empty suffix means [DefaultBackupSuffix].
// Panics if fsys is nil.
func NewBackupWriter(fsys fs.FS, suffix string) *BackupWriter {
	if fsys == nil {
		panic("fs is nil")
	}

	if suffix == "" {
		suffix = DefaultBackupSuffix
	}

	return &BackupWriter{fs: fsys, suffix: suffix}
}

// BackupPath returns where the backup of path lives.
func (w *BackupWriter) BackupPath(path string) string {
	return path + w.suffix
}

// Commit writes the backup (only if the target exists and no backup exists yet),
// then atomically replaces the target. If the backup step fails the target is
// left as it was.
func (w *BackupWriter) Commit(path string, original, updated []byte) (Outcome, error) {
	targetExists, err := w.fs.Exists(path)
	if err != nil {
		return Outcome{}, fmt.Errorf("stat %q: %w", path, err)
	}

	if targetExists && bytes.Equal(original, updated) {
		return Outcome{}, nil
	}

	var outcome Outcome

	perm := os.FileMode(defaultPerm)

	if targetExists {
		info, statErr := w.fs.Stat(path)
		if statErr != nil {
			return Outcome{}, fmt.Errorf("stat %q: %w", path, statErr)
		}

		perm = info.Mode().Perm()

		created, backupErr := w.backupOnce(path, original, perm)
		if backupErr != nil {
			return Outcome{}, backupErr
		}

		if created {
			outcome.BackupPath = w.BackupPath(path)
		}
	} else {
		mkErr := w.fs.MkdirAll(filepath.Dir(path), dirPerm)
		if mkErr != nil {
			return Outcome{}, fmt.Errorf("%w: create dir for %q: %w", ErrReplace, path, mkErr)
		}
	}

	writeErr := w.fs.WriteFileAtomic(path, updated, perm)
	if writeErr != nil {
		return outcome, fmt.Errorf("%w: %q: %w", ErrReplace, path, writeErr)
	}

	outcome.Written = true

	return outcome, nil
}

func (w *BackupWriter) backupOnce(path string, original []byte, perm os.FileMode) (bool, error) {
	backup := w.BackupPath(path)

	exists, err := w.fs.Exists(backup)
	if err != nil {
		return false, fmt.Errorf("%w: stat %q: %w", ErrBackup, backup, err)
	}

	if exists {
		return false, nil
	}

	err = w.fs.WriteFileAtomic(backup, original, perm)
	if err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrBackup, backup, err)
	}

	return true, nil
}

var _ Durable = (*BackupWriter)(nil)
