package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/contentfix/internal/cli"
)

func Test_Migrate_Check_Lists_Pending_Files_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	data := `{"id": "d1", "spot_kind": "k", "target": "overbet"}` + "\n" +
		`{"id": "d2", "target": "fold"}` + "\n"
	c.WriteFile(drillsPath, data)
	c.WriteFile(cli.ModuleFile("core_a", "demos.jsonl"), `{"id": "m1", "spot_kind": "k", "steps": []}`+"\n")

	stdout, _ := c.MustExit(cli.ExitFailed, "migrate")

	assert.Equal(t, "[migrate] "+drillsPath+" (targets=1, spot_kinds=1)\n", stdout)
	assert.Equal(t, data, c.ReadFile(drillsPath))
}

func Test_Migrate_In_Place_Keeps_Row_Formatting_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	data := `{"id": "d1", "spot_kind": "k", "target": "overbet"}` + "\n" +
		`{"id":"d2","target":"fold"}` + "\n" +
		"{broken\n" +
		`{"id": "d4", "spot_kind": "k", "target": "call"}` + "\n"
	c.WriteFile(drillsPath, data)

	stdout, stderr, code := c.Run("migrate", "--in-place")

	assert.Equal(t, cli.ExitOK, code)
	assert.Equal(t, "[FIXED] "+drillsPath+"\n", stdout)
	cli.AssertContains(t, stderr, "[SKIP-MALFORMED] "+drillsPath+":3 ")

	want := `{"id": "d1", "spot_kind": "k", "target": "big_bet_75"}` + "\n" +
		`{"id":"d2","target":"fold","spot_kind":"l2_core_rules_check"}` + "\n" +
		"{broken\n" +
		`{"id": "d4", "spot_kind": "k", "target": "call"}` + "\n"
	assert.Equal(t, want, c.ReadFile(drillsPath))
	assert.Equal(t, data, c.ReadFile(drillsPath+".bak"))

	stdout = c.MustRun("migrate", "--check")
	assert.Empty(t, stdout)
}
