package fs

import (
	"errors"
	"os"
	"sync"
)

// InjectedError marks an error as intentionally injected by [Faulty].
//
// It wraps the underlying error so errors.Is/As continue to work.
type InjectedError struct {
	Op   string
	Path string
	Err  error
}

// Error returns the operation, path and underlying error message.
func (e *InjectedError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Faulty].
// Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError

	return errors.As(err, &injected)
}

// ErrInjected is the default error returned by a [Faulty] failure rule.
var ErrInjected = errors.New("injected failure")

// Operation names accepted by [Faulty.Fail].
const (
	OpReadFile        = "read"
	OpWriteFileAtomic = "write"
	OpReadDir         = "readdir"
	OpMkdirAll        = "mkdir"
	OpStat            = "stat"
)

// Faulty wraps an [FS] and fails selected operations on selected paths.
//
// It is used by tests to simulate a crash or I/O error between the backup
// and replace steps of a commit. Calls that don't match a rule pass through.
type Faulty struct {
	inner FS

	mu    sync.Mutex
	rules map[string]map[string]error // op -> path -> err
	calls []string
}

// NewFaulty returns a [Faulty] wrapping inner. Panics if inner is nil.
func NewFaulty(inner FS) *Faulty {
	if inner == nil {
		panic("inner fs is nil")
	}

	return &Faulty{inner: inner, rules: make(map[string]map[string]error)}
}

// Fail makes op on path return err (or [ErrInjected] if err is nil).
func (f *Faulty) Fail(op, path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		err = ErrInjected
	}

	if f.rules[op] == nil {
		f.rules[op] = make(map[string]error)
	}

	f.rules[op][path] = err
}

// Calls returns the "op path" log of every call made, in order.
func (f *Faulty) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

func (f *Faulty) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, op+" "+path)

	if err, ok := f.rules[op][path]; ok {
		return &InjectedError{Op: op, Path: path, Err: err}
	}

	return nil
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile, path); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWriteFileAtomic, path); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.check(OpReadDir, path); err != nil {
		return nil, err
	}

	return f.inner.ReadDir(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Stat(path string) (os.FileInfo, error) {
	if err := f.check(OpStat, path); err != nil {
		return nil, err
	}

	return f.inner.Stat(path)
}

// Exists is checked under the stat rule since it is implemented with stat.
func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpStat, path); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

var _ FS = (*Faulty)(nil)
