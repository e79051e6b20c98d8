package cli

import (
	"context"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/textfix"
)

// AutofixCmd returns the autofix command.
func AutofixCmd(a *app) *Command {
	fs := flag.NewFlagSet("autofix", flag.ContinueOnError)
	m := addMode(fs, "in-place", false)
	ensureMentions := fs.Bool("ensure-mentions", false, "Append the mentions footnote to theory files missing a required mention")

	return &Command{
		Flags: fs,
		Usage: "autofix [--check|--in-place] [--ensure-mentions]",
		Short: "Repair token spellings in content files",
		Long: `Apply the rule table's spelling replacers to every content file.

--ensure-mentions also appends the configured footnote to theory files
that lack a required mention. --check (default) lists files that would
change and exits 1 if any. --in-place rewrites them, keeping one backup.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return usageError(errTooManyArgs)
			}

			return execAutofix(ctx, a, o, m, *ensureMentions)
		},
	}
}

func execAutofix(ctx context.Context, a *app, o *IO, m *mode, ensureMentions bool) error {
	write, err := m.writing()
	if err != nil {
		return err
	}

	mods, err := content.Discover(a.fs, a.cfg.ContentDirAbs)
	if err != nil {
		return err
	}

	changed := 0

	for _, mod := range mods {
		for _, path := range mod.Files() {
			if err := ctx.Err(); err != nil {
				return err
			}

			data, err := a.fs.ReadFile(path)
			if err != nil {
				return err
			}

			text := textfix.Spelling(a.rules, string(data))
			if ensureMentions && content.RoleOf(path) == content.RoleTheory {
				text = textfix.EnsureMentions(a.rules.Theory, text)
			}

			if text == string(data) {
				continue
			}

			changed++

			a.log.Debug("file autofixed", zap.String("file", a.rel(path)), zap.Bool("write", write))

			if !write {
				o.Println("[fixable] " + a.rel(path))

				continue
			}

			err = a.commit(path, data, []byte(text))
			if err != nil {
				return err
			}

			o.Println("[fixed] " + a.rel(path))
		}
	}

	if !write {
		if changed > 0 {
			return failed()
		}

		return nil
	}

	o.Printf("\nAutofix done. Files changed: %d\n", changed)

	return nil
}
