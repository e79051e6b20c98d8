package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFaulty_FailsOnlyMatchingOperation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "drills.jsonl")

	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	faulty := NewFaulty(NewReal())
	faulty.Fail(OpWriteFileAtomic, path, nil)

	if _, err := faulty.ReadFile(path); err != nil {
		t.Fatalf("ReadFile should pass through, got %v", err)
	}

	err := faulty.WriteFileAtomic(path, []byte("x"), 0o644)
	if !IsInjected(err) {
		t.Fatalf("err=%v, want injected", err)
	}

	if !errors.Is(err, ErrInjected) {
		t.Fatalf("err=%v, want errors.Is ErrInjected", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "{}\n" {
		t.Fatalf("file modified despite injected failure: %q", data)
	}

	calls := faulty.Calls()
	if len(calls) != 2 || calls[1] != "write "+path {
		t.Fatalf("calls=%v", calls)
	}
}

func TestIsInjected_FalseForRealErrors(t *testing.T) {
	t.Parallel()

	if IsInjected(nil) {
		t.Fatal("nil should not be injected")
	}

	if IsInjected(os.ErrNotExist) {
		t.Fatal("os.ErrNotExist should not be injected")
	}
}
