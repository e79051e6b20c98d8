package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/calvinalkan/contentfix/internal/cli"
)

func Test_Print_Config_Defaults_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "content_dir="+filepath.Join(c.Dir, "content"))
	cli.AssertContains(t, stdout, "dispatcher_path="+filepath.Join(c.Dir, "prompts", "dispatcher", "_ALL.txt"))
	cli.AssertContains(t, stdout, "rules_path=(embedded)")
	cli.AssertContains(t, stdout, "dispatcher_style=compact")
	cli.AssertContains(t, stdout, "backup_suffix=.bak")
	cli.AssertContains(t, stdout, "(defaults only)")
}

func Test_Print_Config_From_Config_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".contentfix.json", `{
		// Course content lives elsewhere
		"content_dir": "course",
		"dispatcher_style": "spaced",
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "content_dir="+filepath.Join(c.Dir, "course"))
	cli.AssertContains(t, stdout, "dispatcher_style=spaced")
	cli.AssertContains(t, stdout, "project_config="+filepath.Join(c.Dir, ".contentfix.json"))
}

func Test_Print_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("custom.json", `{"allowlist_dir": "lists"}`)

	stdout := c.MustRun("-c", "custom.json", "print-config")
	cli.AssertContains(t, stdout, "allowlist_dir="+filepath.Join(c.Dir, "lists"))
}

func Test_Print_Config_Global_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["XDG_CONFIG_HOME"] = c.Path("xdg")
	c.WriteFile("xdg/contentfix/config.json", `{"backup_suffix": ".orig"}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, "backup_suffix=.orig")
	cli.AssertContains(t, stdout, "global_config="+c.Path("xdg/contentfix/config.json"))
}

func Test_Print_Config_Missing_Explicit_Config_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "nope.json", "print-config")

	cli.AssertContains(t, stderr, "config file not found")
}
