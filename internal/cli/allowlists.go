package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/contentfix/internal/allowlist"
	"github.com/calvinalkan/contentfix/internal/content"
)

// AllowlistsCmd returns the allowlists command.
func AllowlistsCmd(a *app) *Command {
	fs := flag.NewFlagSet("allowlists", flag.ContinueOnError)
	m := addMode(fs, "write", false)

	return &Command{
		Flags: fs,
		Usage: "allowlists [--check|--write]",
		Short: "Derive per-module target token allowlists from drills",
		Long: `Derive target_tokens_allowlist_<module>.txt for every module with drills.

Each file lists the sorted unique targets of the module's drill rows, one
per line. Modules without targets, non-ASCII tokens and unparseable rows
are errors. --check (default) also reports outdated files and exits 1 on
any finding. --write commits outdated files and exits 1 only on errors.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return usageError(errTooManyArgs)
			}

			return execAllowlists(ctx, a, o, m)
		},
	}
}

func execAllowlists(ctx context.Context, a *app, o *IO, m *mode) error {
	write, err := m.writing()
	if err != nil {
		return err
	}

	mods, err := content.Discover(a.fs, a.cfg.ContentDirAbs)
	if err != nil {
		return err
	}

	s := allowlist.NewSyncer(a.fs, a.cfg.AllowlistDirAbs, a.durable, a.log)
	s.Label = a.rel

	plan, err := s.Plan(ctx, mods)
	if err != nil {
		return err
	}

	if !write {
		for _, f := range plan.Findings {
			o.Println(f.String())
		}

		if len(plan.Findings) > 0 {
			return failed()
		}

		return nil
	}

	written, err := s.Write(plan)

	for _, p := range written {
		o.Println("[written] " + a.rel(p))
	}

	if err != nil {
		return err
	}

	errs := plan.Errors()
	for _, f := range errs {
		o.Println(f.String())
	}

	if len(errs) > 0 {
		return failed()
	}

	return nil
}
