package cli

import (
	"context"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/validate"
)

// ValidateCmd returns the validate command.
func ValidateCmd(a *app) *Command {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	withDispatcher := fs.Bool("dispatcher", false, "Also check the dispatcher index")

	return &Command{
		Flags: fs,
		Usage: "validate [--dispatcher]",
		Short: "Check content files against the rule tables",
		Long: `Check every theory, demos and drills file under content_dir.

Issues are printed as "[ERR] path:line :: message" or "[WARN] ...",
followed by a summary line. Warnings are review hints; only errors make
the command exit 1. --dispatcher also checks the dispatcher index for
empty or duplicate ids, placeholder scopes and unknown allowlist tokens.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return usageError(errTooManyArgs)
			}

			return execValidate(ctx, a, o, *withDispatcher)
		},
	}
}

func execValidate(ctx context.Context, a *app, o *IO, withDispatcher bool) error {
	mods, err := content.Discover(a.fs, a.cfg.ContentDirAbs)
	if err != nil {
		return err
	}

	if len(mods) == 0 {
		o.Warn("no modules under "+a.rel(a.cfg.ContentDirAbs), "check content_dir")
	}

	v := validate.New(a.rules, a.fs, a.log)
	v.Label = a.rel

	rep, err := v.Modules(ctx, mods)
	if err != nil {
		return err
	}

	if withDispatcher {
		rep.Add(v.DispatcherFile(a.cfg.DispatcherPathAbs)...)
	}

	a.log.Debug("validated",
		zap.Int("modules", len(mods)),
		zap.Int("errors", rep.Errors()),
		zap.Int("warnings", rep.Warnings()),
	)

	err = rep.Write(o.Out())
	if err != nil {
		return err
	}

	if rep.Failed() {
		return failed()
	}

	return nil
}
