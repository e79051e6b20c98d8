package persist_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/contentfix/internal/fs"
	"github.com/calvinalkan/contentfix/internal/persist"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}

func TestCommit_UnchangedContentWritesNothing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "_ALL.txt")
	writeFile(t, path, "module_id: a\n")

	w := persist.NewBackupWriter(fs.NewReal(), "")

	outcome, err := w.Commit(path, []byte("module_id: a\n"), []byte("module_id: a\n"))
	require.NoError(t, err)

	assert.False(t, outcome.Written)
	assert.Empty(t, outcome.BackupPath)
	assert.NoFileExists(t, path+".bak")
}

func TestCommit_CreatesBackupOnlyOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "drills.jsonl")
	writeFile(t, path, "v1\n")

	w := persist.NewBackupWriter(fs.NewReal(), "")

	first, err := w.Commit(path, []byte("v1\n"), []byte("v2\n"))
	require.NoError(t, err)
	assert.True(t, first.Written)
	assert.Equal(t, path+".bak", first.BackupPath)

	second, err := w.Commit(path, []byte("v2\n"), []byte("v3\n"))
	require.NoError(t, err)
	assert.True(t, second.Written)
	assert.Empty(t, second.BackupPath, "second commit must not create a backup")

	assert.Equal(t, "v3\n", readFile(t, path))
	assert.Equal(t, "v1\n", readFile(t, path+".bak"), "backup keeps the oldest pre-image")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCommit_NewFileHasNoBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "allowlists", "target_tokens_allowlist_core_x.txt")

	w := persist.NewBackupWriter(fs.NewReal(), "")

	outcome, err := w.Commit(path, nil, []byte("call\n"))
	require.NoError(t, err)

	assert.True(t, outcome.Written)
	assert.Empty(t, outcome.BackupPath)
	assert.Equal(t, "call\n", readFile(t, path))
}

func TestCommit_BackupFailureLeavesTargetIntact(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "_ALL.txt")
	writeFile(t, path, "original\n")

	faulty := fs.NewFaulty(fs.NewReal())
	faulty.Fail(fs.OpWriteFileAtomic, path+".bak", nil)

	w := persist.NewBackupWriter(faulty, "")

	_, err := w.Commit(path, []byte("original\n"), []byte("updated\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, persist.ErrBackup))
	assert.True(t, fs.IsInjected(err))

	assert.Equal(t, "original\n", readFile(t, path))
}

func TestCommit_ReplaceFailureKeepsOriginalAndBackup(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "_ALL.txt")
	writeFile(t, path, "original\n")

	faulty := fs.NewFaulty(fs.NewReal())
	faulty.Fail(fs.OpWriteFileAtomic, path, nil)

	w := persist.NewBackupWriter(faulty, ".orig")

	outcome, err := w.Commit(path, []byte("original\n"), []byte("updated\n"))
	require.ErrorIs(t, err, persist.ErrReplace)
	assert.False(t, outcome.Written)

	assert.Equal(t, "original\n", readFile(t, path))
	assert.Equal(t, "original\n", readFile(t, path+".orig"))
}
