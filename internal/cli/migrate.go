package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/migrate"
)

// MigrateCmd returns the migrate command.
func MigrateCmd(a *app) *Command {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	m := addMode(fs, "in-place", false)

	return &Command{
		Flags: fs,
		Usage: "migrate [--check|--in-place]",
		Short: "Map legacy row targets to allowed tokens",
		Long: `Rewrite demo and drill targets through the alias table.

A target that is not an allowed token is mapped by the alias table, then
by the ordered substring heuristics, then to the fallback token. Rows
without spot_kind get the default. Key order and formatting of each row
are kept. Rows that do not parse are skipped and reported on stderr.
--check (default) lists files that would change and exits 1 if any.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return usageError(errTooManyArgs)
			}

			return execMigrate(ctx, a, o, m)
		},
	}
}

func execMigrate(ctx context.Context, a *app, o *IO, m *mode) error {
	write, err := m.writing()
	if err != nil {
		return err
	}

	mods, err := content.Discover(a.fs, a.cfg.ContentDirAbs)
	if err != nil {
		return err
	}

	pending := 0

	for _, mod := range mods {
		for _, path := range mod.RowFiles() {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := a.fs.ReadFile(path)
			if err != nil {
				return err
			}

			res, err := migrate.File(a.rules, data)
			if err != nil {
				return fmt.Errorf("%s: %w", a.rel(path), err)
			}

			for _, s := range res.Skipped {
				o.ErrPrintf("[SKIP-MALFORMED] %s:%d %s\n", a.rel(path), s.Line, s.Message)
			}

			a.log.Debug("file migrated",
				zap.String("file", a.rel(path)),
				zap.Int("targets", res.Targets),
				zap.Int("spot_kinds", res.SpotKinds),
				zap.Int("skipped", len(res.Skipped)),
				zap.Bool("changed", res.Changed),
			)

			if !res.Changed {
				continue
			}

			if !write {
				pending++

				o.Printf("[migrate] %s (targets=%d, spot_kinds=%d)\n", a.rel(path), res.Targets, res.SpotKinds)

				continue
			}

			err = a.commit(path, data, res.Output)
			if err != nil {
				return err
			}

			o.Println("[FIXED] " + a.rel(path))
		}
	}

	if pending > 0 {
		return failed()
	}

	return nil
}
