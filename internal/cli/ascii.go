package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/textfix"
)

// ASCIICmd returns the ascii command.
func ASCIICmd(a *app) *Command {
	fs := flag.NewFlagSet("ascii", flag.ContinueOnError)
	m := addMode(fs, "in-place", false)

	return &Command{
		Flags: fs,
		Usage: "ascii [--check|--in-place] paths/globs...",
		Short: "Fold typographic punctuation to ASCII",
		Long: `Replace curly quotes, dashes, the minus sign, ellipses and special spaces
with their ASCII forms and drop zero-width spaces, after NFC normalization.

--check (default) lists files that would change and exits 1 if any.
--in-place rewrites them, keeping one backup.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execASCII(ctx, a, o, m, args)
		},
	}
}

func execASCII(ctx context.Context, a *app, o *IO, m *mode, args []string) error {
	write, err := m.writing()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return usageError(errPathsRequired)
	}

	files, missing, err := content.ExpandPatterns(a.cfg.EffectiveCwd, args)
	if err != nil {
		return usageError(err)
	}

	for _, p := range missing {
		o.Warn("no files match "+p, "check the path or glob")
	}

	pending := 0

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := a.fs.ReadFile(path)
		if err != nil {
			return err
		}

		text, err := textfix.FoldASCII(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", a.rel(path), err)
		}

		if text == string(data) {
			continue
		}

		if !write {
			pending++

			o.Println("[non-ascii] " + a.rel(path))

			continue
		}

		err = a.commit(path, data, []byte(text))
		if err != nil {
			return err
		}

		o.Println("normalized: " + a.rel(path))
	}

	if pending > 0 {
		return failed()
	}

	return nil
}
