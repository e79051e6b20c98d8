package fixer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/contentfix/internal/fixer"
)

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := fixer.Diagnostic{
		Path:    "drills.jsonl",
		Line:    2,
		Column:  4,
		Message: "invalid character 'x'\nsecond line of detail",
		Text:    `{"ax`,
	}

	want := "BAD drills.jsonl:2:4 -> invalid character 'x'\n{\"ax\n   ^"
	assert.Equal(t, want, d.String())
}

func TestDiagnostic_ZeroColumnClampsCaret(t *testing.T) {
	t.Parallel()

	d := fixer.Diagnostic{Path: "p", Line: 1, Column: 0, Message: "m", Text: "x"}

	lines := strings.Split(d.String(), "\n")
	assert.Equal(t, "BAD p:1:1 -> m", lines[0])
	assert.Equal(t, "^", lines[2])
}

func TestWriteDiagnostics_Golden(t *testing.T) {
	t.Parallel()

	chain := defaultChain()
	path := "content/core_x/v1/drills.jsonl"

	rows := []struct {
		line int
		text string
	}{
		{3, `{"id": "d1", "steps": ["a"]`},
		{7, `{"id": "d2" "x": 1}`},
	}

	var diags []fixer.Diagnostic

	for _, r := range rows {
		res := chain.Repair(r.text)
		if res.OK {
			t.Fatalf("row %d unexpectedly repaired", r.line)
		}

		diags = append(diags, fixer.NewDiagnostic(path, r.line, res))
	}

	var buf bytes.Buffer

	fixer.WriteDiagnostics(&buf, diags)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, "unfixable_rows", buf.Bytes())
}
