package allowlist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/contentfix/internal/allowlist"
	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/fs"
	"github.com/calvinalkan/contentfix/internal/persist"
)

func TestTargets(t *testing.T) {
	t.Parallel()

	data := `{"id": "d1", "target": "fold"}
{"id": "d2", "target": "call"}

{"id": "d3", "target": "fold"}
{"id": "d4"}
{"id": "d5", "target": ""}
{"id": "d6", "target": 3}
{"id": "d7",
`

	targets, malformed := allowlist.Targets([]byte(data))

	assert.Equal(t, []string{"call", "fold"}, targets)
	assert.Equal(t, []int{8}, malformed)
}

func TestRender(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a\nb\n", string(allowlist.Render([]string{"a", "b"})))
	assert.Nil(t, allowlist.Render(nil))
}

type fixture struct {
	root    string
	content string
	dir     string
	syncer  *allowlist.Syncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	fsys := fs.NewReal()

	f := &fixture{
		root:    root,
		content: filepath.Join(root, "content"),
		dir:     filepath.Join(root, "tooling", "allowlists"),
	}
	f.syncer = allowlist.NewSyncer(fsys, f.dir, persist.NewBackupWriter(fsys, ""), nil)
	f.syncer.Label = func(p string) string {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)

		return filepath.ToSlash(rel)
	}

	return f
}

func (f *fixture) write(t *testing.T, rel, data string) {
	t.Helper()

	p := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
}

func (f *fixture) plan(t *testing.T) allowlist.Plan {
	t.Helper()

	mods, err := content.Discover(fs.NewReal(), f.content)
	require.NoError(t, err)

	plan, err := f.syncer.Plan(context.Background(), mods)
	require.NoError(t, err)

	return plan
}

func findings(p allowlist.Plan) []string {
	out := []string{}
	for _, f := range p.Findings {
		out = append(out, f.String())
	}

	return out
}

func TestSync_CheckThenWrite(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "content/core_a/v1/drills.jsonl", `{"target": "fold"}`+"\n"+`{"target": "call"}`+"\n")
	f.write(t, "content/core_b/v1/drills.jsonl", `{"id": "x"}`+"\n")
	f.write(t, "content/core_c/v1/theory.md", "no drills here\n")
	f.write(t, "tooling/allowlists/target_tokens_allowlist_core_a.txt", "fold\n")

	plan := f.plan(t)

	want := []string{
		"[outdated] tooling/allowlists/target_tokens_allowlist_core_a.txt",
		"[no-targets] content/core_b/v1/drills.jsonl",
	}
	if diff := cmp.Diff(want, findings(plan)); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, plan.Errors(), 1)

	written, err := f.syncer.Write(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(f.dir, "target_tokens_allowlist_core_a.txt")}, written)

	got, err := os.ReadFile(filepath.Join(f.dir, "target_tokens_allowlist_core_a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "call\nfold\n", string(got))

	backup, err := os.ReadFile(filepath.Join(f.dir, "target_tokens_allowlist_core_a.txt.bak"))
	require.NoError(t, err)
	assert.Equal(t, "fold\n", string(backup))

	again := f.plan(t)
	assert.Equal(t, []string{"[no-targets] content/core_b/v1/drills.jsonl"}, findings(again))
}

func TestSync_CreatesMissingFiles(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "content/core_a/v1/drills.jsonl", `{"target": "big_bet_75"}`+"\n")

	plan := f.plan(t)
	require.Len(t, plan.Files, 1)
	assert.True(t, plan.Files[0].Outdated())

	_, err := f.syncer.Write(plan)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(f.dir, "target_tokens_allowlist_core_a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "big_bet_75\n", string(got))

	_, err = os.Stat(filepath.Join(f.dir, "target_tokens_allowlist_core_a.txt.bak"))
	assert.True(t, os.IsNotExist(err))
}

func TestSync_NonASCIIAndMalformed(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.write(t, "content/core_a/v1/drills.jsonl", `{"target": "café"}`+"\n"+`{"target": `+"\n")

	plan := f.plan(t)

	want := []string{
		"[malformed] content/core_a/v1/drills.jsonl:2",
		"[non-ascii] tooling/allowlists/target_tokens_allowlist_core_a.txt",
		"[outdated] tooling/allowlists/target_tokens_allowlist_core_a.txt",
	}
	if diff := cmp.Diff(want, findings(plan)); diff != "" {
		t.Fatalf("findings mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, plan.Errors(), 2)
}
