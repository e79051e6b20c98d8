package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/config"
	"github.com/calvinalkan/contentfix/internal/dispatcher"
	"github.com/calvinalkan/contentfix/internal/fixer"
	"github.com/calvinalkan/contentfix/internal/fs"
	"github.com/calvinalkan/contentfix/internal/persist"
	"github.com/calvinalkan/contentfix/internal/rules"
)

// app holds what every command needs. Commands are built before
// configuration is loaded (for help output), so fields are set by init.
type app struct {
	cfg     config.Config
	rules   *rules.Rules
	fs      fs.FS
	durable persist.Durable
	log     *zap.Logger
}

func (a *app) init(cfg config.Config, log *zap.Logger) error {
	r, err := rules.Load(cfg.RulesPathAbs)
	if err != nil {
		return err
	}

	fsys := fs.NewReal()

	a.cfg = cfg
	a.rules = r
	a.fs = fsys
	a.durable = persist.NewBackupWriter(fsys, cfg.BackupSuffix)
	a.log = log

	log.Debug("config loaded",
		zap.String("cwd", cfg.EffectiveCwd),
		zap.String("style", cfg.Style.String()),
		zap.String("rules", cfg.RulesPathAbs),
	)

	return nil
}

// rel renders path relative to the working directory for output.
func (a *app) rel(path string) string {
	r, err := filepath.Rel(a.cfg.EffectiveCwd, path)
	if err != nil || strings.HasPrefix(r, "..") {
		return path
	}

	return filepath.ToSlash(r)
}

// abs resolves a command argument against the working directory.
func (a *app) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(a.cfg.EffectiveCwd, path)
}

func (a *app) defaults() dispatcher.Defaults {
	return dispatcher.DefaultsFromRules(a.rules)
}

func (a *app) chain() *fixer.Chain {
	return fixer.DefaultChain(a.rules)
}

// commit writes updated through the durable writer and logs the outcome.
func (a *app) commit(path string, original, updated []byte) error {
	out, err := a.durable.Commit(path, original, updated)
	if err != nil {
		return fmt.Errorf("write %s: %w", a.rel(path), err)
	}

	a.log.Debug("committed",
		zap.String("file", a.rel(path)),
		zap.Bool("written", out.Written),
		zap.String("backup", out.BackupPath),
	)

	return nil
}

// readOptional reads path, returning nil for a missing file.
func (a *app) readOptional(path string) ([]byte, error) {
	ok, err := a.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", a.rel(path), err)
	}

	if !ok {
		return nil, nil
	}

	data, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.rel(path), err)
	}

	return data, nil
}
