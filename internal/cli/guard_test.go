package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/contentfix/internal/cli"
)

var drillsPath = cli.ModuleFile("core_a", "drills.jsonl")

const repairableDrills = "\ufeff{\"id\": \"d1\", \"target\": \"fold\",}  \n" +
	"\n" +
	"{\"id\": \"d2\", \"spot_kind\": \"k\" \"steps\": []}\n" +
	"{\"id\": \"d3\"}\n"

const repairedDrills = "{\"id\": \"d1\", \"target\": \"fold\"}\n" +
	"\n" +
	"{\"id\": \"d2\", \"spot_kind\": \"k\", \"steps\": []}\n" +
	"{\"id\": \"d3\"}\n"

func Test_Guard_Fix_Is_Default_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(drillsPath, repairableDrills)

	stdout, stderr, code := c.Run("guard")

	assert.Equal(t, cli.ExitOK, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "[fixed] "+drillsPath+"\nOK\n", stdout)
	assert.Equal(t, repairedDrills, c.ReadFile(drillsPath))
	assert.Equal(t, repairableDrills, c.ReadFile(drillsPath+".bak"))

	// Repaired output is a fixed point.
	assert.Equal(t, "OK", c.MustRun("guard", "--check"))
}

func Test_Guard_Check_Reports_Pending_Repairs_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(drillsPath, repairableDrills)

	stdout, _ := c.MustExit(cli.ExitFailed, "guard", "--check")

	assert.Equal(t, "[fixable] "+drillsPath+"\n", stdout)
	assert.Equal(t, repairableDrills, c.ReadFile(drillsPath))
	assert.False(t, c.Exists(drillsPath+".bak"))
}

func Test_Guard_Leaves_File_With_Bad_Row_Untouched_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	data := "{\"id\": \"d1\",}\n{\"id\": \"d2\" \"x\": 1}\n"
	c.WriteFile(drillsPath, data)

	stdout, stderr := c.MustExit(cli.ExitFailed, "guard", "--fix")

	assert.Empty(t, stdout)
	cli.AssertContains(t, stderr, "BAD "+drillsPath+":2:13 -> invalid character '\"' after object key:value pair\n")
	cli.AssertContains(t, stderr, "{\"id\": \"d2\" \"x\": 1}\n            ^\n")
	assert.Equal(t, data, c.ReadFile(drillsPath), "all-or-nothing: no partial repair")
	assert.False(t, c.Exists(drillsPath+".bak"))
}

func Test_Guard_Explicit_Globs_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	demos := cli.ModuleFile("core_b", "demos.jsonl")
	c.WriteFile(demos, "{\"id\": \"x\",}\n")
	c.WriteFile(drillsPath, "{\"id\": \"d1\",}\n")

	stdout := c.MustRun("guard", "content/*/v1/demos.jsonl", "missing/*.jsonl")

	assert.Equal(t, "[fixed] "+demos+"\nOK", stdout)
	assert.Equal(t, "{\"id\": \"x\"}\n", c.ReadFile(demos))
	assert.Equal(t, "{\"id\": \"d1\",}\n", c.ReadFile(drillsPath), "not matched")
}

func Test_Guard_Warns_For_Unmatched_Pattern_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, stderr, code := c.Run("guard", "nothing/*.jsonl")

	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "OK\n", stdout)
	cli.AssertContains(t, stderr, "warning: no files match nothing/*.jsonl")
}
