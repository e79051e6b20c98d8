package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/dispatcher"
)

// RebuildCmd returns the rebuild command.
func RebuildCmd(a *app) *Command {
	fs := flag.NewFlagSet("rebuild", flag.ContinueOnError)
	m := addMode(fs, "in-place", false)
	ssot := fs.String("ssot", "", "Source-of-truth id `file` (default from config)")

	return &Command{
		Flags: fs,
		Usage: "rebuild [--check|--in-place] [--ssot file] [path]",
		Short: "Rebuild the dispatcher index from the id list",
		Long: `Rebuild the dispatcher index from the source-of-truth module id list.

Modules are emitted in id-list order. Existing scopes and allowlists are
carried forward; a per-module allowlist file in allowlist_dir replaces the
target tokens; modules missing from the list are dropped and new ones get
defaults. --check (default) prints changed ids, "+id" for added and "-id"
for removed modules, and exits 1 if the file would change. An empty id list
exits 2.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			return execRebuild(a, o, m, *ssot, args)
		},
	}
}

func execRebuild(a *app, o *IO, m *mode, ssotFlag string, args []string) error {
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

	ssotPath := a.cfg.SSOTPathAbs
	if ssotFlag != "" {
		ssotPath = a.abs(ssotFlag)
	}

	ssotText, err := a.readOptional(ssotPath)
	if err != nil {
		return err
	}

	ids := dispatcher.ParseSSOT(string(ssotText), a.rules.SSOT)

	oldData, err := a.readOptional(path)
	if err != nil {
		return err
	}

	old := dispatcher.Parse(string(oldData))

	doc, err := dispatcher.Rebuild(ids, old, dispatcher.NewDirAllowlists(a.fs, a.cfg.AllowlistDirAbs))
	if err != nil {
		if errors.Is(err, dispatcher.ErrNoModuleIDs) {
			return usageError(fmt.Errorf("%w: %s", err, a.rel(ssotPath)))
		}

		return err
	}

	d := a.defaults()
	newText := dispatcher.Render(doc, d, a.cfg.Style)
	changed := newText != string(oldData)
	changes := dispatcher.TrackRebuild(old, doc, string(oldData), newText, d, a.cfg.Style)

	a.log.Debug("dispatcher rebuilt",
		zap.String("file", a.rel(path)),
		zap.Int("modules", len(ids)),
		zap.Bool("changed", changed),
	)

	if !write {
		if !changed {
			return nil
		}

		for _, id := range changes.Changed {
			o.Println(id)
		}

		for _, id := range changes.Added {
			o.Println("+" + id)
		}

		for _, id := range changes.Removed {
			o.Println("-" + id)
		}

		return failed()
	}

	if changed {
		err = a.commit(path, oldData, []byte(newText))
		if err != nil {
			return err
		}
	}

	touched := len(changes.Changed) + len(changes.Added) + len(changes.Removed)
	o.Printf("modules=%d, modules_touched=%d, lines_changed=%d\n", len(ids), touched, changes.LinesChanged)

	return nil
}
