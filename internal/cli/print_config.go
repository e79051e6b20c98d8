package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, a)
		},
	}
}

func execPrintConfig(o *IO, a *app) error {
	cfg := a.cfg

	o.Println("effective_cwd=" + cfg.EffectiveCwd)
	o.Println("content_dir=" + cfg.ContentDirAbs)
	o.Println("dispatcher_path=" + cfg.DispatcherPathAbs)
	o.Println("ssot_path=" + cfg.SSOTPathAbs)
	o.Println("allowlist_dir=" + cfg.AllowlistDirAbs)

	if cfg.RulesPathAbs != "" {
		o.Println("rules_path=" + cfg.RulesPathAbs)
	} else {
		o.Println("rules_path=(embedded)")
	}

	o.Println("dispatcher_style=" + cfg.Style.String())
	o.Println("backup_suffix=" + cfg.BackupSuffix)

	o.Println("")
	o.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		o.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			o.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			o.Println("project_config=" + cfg.Sources.Project)
		}
	}

	return nil
}
