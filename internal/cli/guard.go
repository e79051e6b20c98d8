package cli

import (
	"context"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/fixer"
	"github.com/calvinalkan/contentfix/internal/rows"
)

// GuardCmd returns the guard command.
func GuardCmd(a *app) *Command {
	fs := flag.NewFlagSet("guard", flag.ContinueOnError)
	m := addMode(fs, "fix", true)

	return &Command{
		Flags: fs,
		Usage: "guard [--check|--fix] [paths/globs...]",
		Short: "Repair JSONL rows and report the ones that cannot be repaired",
		Long: `Run the row fixer chain over JSONL files.

Each row is tried as-is, then with trailing whitespace stripped, trailing
commas removed and missing separators inserted, stopping at the first
candidate that parses. Rows that never parse are reported on stderr with
their line, column and a caret. A file is rewritten (--fix, the default)
only when every row parses. --check writes nothing and exits 1 when any
row is bad or any file has pending repairs.

Without paths, <content_dir>/*/v1/drills.jsonl is used.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execGuard(ctx, a, o, m, args)
		},
	}
}

func execGuard(ctx context.Context, a *app, o *IO, m *mode, args []string) error {
	write, err := m.writing()
	if err != nil {
		return err
	}

	base := a.cfg.EffectiveCwd
	if len(args) == 0 {
		base = a.cfg.ContentDirAbs
		args = []string{filepath.Join("*", content.Version, content.DrillsFile)}
	}

	files, missing, err := content.ExpandPatterns(base, args)
	if err != nil {
		return usageError(err)
	}

	for _, p := range missing {
		o.Warn("no files match "+p, "check the path or glob")
	}

	chain := a.chain()
	bad := 0
	pending := 0

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := a.fs.ReadFile(path)
		if err != nil {
			return err
		}

		res := rows.Guard(a.rel(path), data, chain)

		a.log.Debug("file guarded",
			zap.String("file", a.rel(path)),
			zap.Int("rows", res.Rows),
			zap.Int("repaired", res.Repaired),
			zap.Int("bad", len(res.Diagnostics)),
			zap.Bool("changed", res.Changed),
		)

		bad += len(res.Diagnostics)
		fixer.WriteDiagnostics(o.ErrOut(), res.Diagnostics)

		if !res.ShouldWrite() {
			continue
		}

		if !write {
			pending++

			o.Println("[fixable] " + a.rel(path))

			continue
		}

		err = a.commit(path, data, res.Output)
		if err != nil {
			return err
		}

		o.Println("[fixed] " + a.rel(path))
	}

	if bad > 0 || pending > 0 {
		return failed()
	}

	o.Println("OK")

	return nil
}
