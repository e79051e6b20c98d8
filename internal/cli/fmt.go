package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/dispatcher"
)

// FmtCmd returns the fmt command.
func FmtCmd(a *app) *Command {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	m := addMode(fs, "in-place", false)

	return &Command{
		Flags: fs,
		Usage: "fmt [--check|--in-place] [path]",
		Short: "Normalize the dispatcher index",
		Long: `Rewrite the dispatcher index in canonical form, keeping record order.

Tabs, trailing spaces, duplicated adjacent items, blank-line padding and
missing fields are normalized; dispatcher_style selects compact or spaced
output. --check (default) prints the ids of records that would change and
exits 1 if the file would change. --in-place rewrites the file, keeping one
backup, and prints modules_touched and lines_changed.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execFmt(a, o, m, args)
		},
	}
}

func execFmt(a *app, o *IO, m *mode, args []string) error {
	write, err := m.writing()
	if err != nil {
		return err
	}

	if len(args) > 1 {
		return usageError(errTooManyArgs)
	}

	path := a.cfg.DispatcherPathAbs
	if len(args) == 1 {
		path = a.abs(args[0])
	}

	data, err := a.fs.ReadFile(path)
	if err != nil {
		return usageError(fmt.Errorf("read dispatcher: %w", err))
	}

	res := dispatcher.NewNormalizer(a.cfg.Style, a.defaults()).Normalize(string(data))

	a.log.Debug("dispatcher normalized",
		zap.String("file", a.rel(path)),
		zap.Int("records", res.Records),
		zap.Bool("changed", res.Changed),
	)

	if !write {
		if !res.Changed {
			return nil
		}

		for _, id := range res.Changes.ChangedIDs() {
			o.Println(id)
		}

		return failed()
	}

	if res.Changed {
		err = a.commit(path, data, []byte(res.Output))
		if err != nil {
			return err
		}
	}

	o.Printf("modules_touched=%d, lines_changed=%d\n", res.Changes.Touched(), res.Changes.LinesChanged)

	return nil
}
