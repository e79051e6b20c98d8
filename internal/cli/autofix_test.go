package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/contentfix/internal/cli"
)

var theoryPath = cli.ModuleFile("core_a", "theory.md")

func Test_Autofix_Check_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(theoryPath, "## What it is\nUse size-down-dry.\n")
	c.WriteFile(drillsPath, `{"id": "d1", "question": "After check-check?"}`+"\n")
	c.WriteFile(cli.ModuleFile("core_a", "demos.jsonl"), cleanDemos)

	stdout, _ := c.MustExit(cli.ExitFailed, "autofix")

	assert.Equal(t, "[fixable] "+theoryPath+"\n[fixable] "+drillsPath+"\n", stdout)
	assert.Equal(t, "## What it is\nUse size-down-dry.\n", c.ReadFile(theoryPath))
}

func Test_Autofix_In_Place_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(theoryPath, "## What it is\nUse size-down-dry.\n")
	c.WriteFile(drillsPath, `{"id": "d1", "question": "After check-check, FV 75?"}`+"\n")

	stdout := c.MustRun("autofix", "--in-place")

	assert.Equal(t, "[fixed] "+theoryPath+"\n[fixed] "+drillsPath+"\n\nAutofix done. Files changed: 2", stdout)
	assert.Equal(t, "## What it is\nUse size_down_dry.\n", c.ReadFile(theoryPath))
	assert.Equal(t, `{"id": "d1", "question": "After chk-chk, Fv75?"}`+"\n", c.ReadFile(drillsPath))

	stdout = c.MustRun("autofix", "--in-place")
	assert.Equal(t, "Autofix done. Files changed: 0", stdout)
}

func Test_Autofix_Ensure_Mentions_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(theoryPath, "## What it is\nUse size_down_dry.\n")

	c.MustRun("autofix")
	c.MustRun("autofix", "--in-place", "--ensure-mentions")

	got := c.ReadFile(theoryPath)
	cli.AssertContains(t, got, "Use size_down_dry.\n\n_This module uses the fixed families and sizes:")
	assert.Equal(t, "## What it is\nUse size_down_dry.\n", c.ReadFile(theoryPath+".bak"))

	c.MustRun("autofix", "--check", "--ensure-mentions")
}
