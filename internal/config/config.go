// Package config loads contentfix configuration from JSONC files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/contentfix/internal/dispatcher"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrPathEmpty          = errors.New("path cannot be empty")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	ContentDir      string `json:"content_dir"`
	DispatcherPath  string `json:"dispatcher_path"`
	SSOTPath        string `json:"ssot_path"`
	AllowlistDir    string `json:"allowlist_dir"`
	RulesPath       string `json:"rules_path,omitempty"`
	DispatcherStyle string `json:"dispatcher_style,omitempty"`
	BackupSuffix    string `json:"backup_suffix,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd      string           `json:"-"`
	ContentDirAbs     string           `json:"-"`
	DispatcherPathAbs string           `json:"-"`
	SSOTPathAbs       string           `json:"-"`
	AllowlistDirAbs   string           `json:"-"`
	RulesPathAbs      string           `json:"-"` // empty means embedded rules
	Style             dispatcher.Style `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// requiredPaths are keys that may not be set to "" in a config file.
var requiredPaths = []string{"content_dir", "dispatcher_path", "ssot_path", "allowlist_dir"}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ContentDir:      "content",
		DispatcherPath:  filepath.Join("prompts", "dispatcher", "_ALL.txt"),
		SSOTPath:        filepath.Join("tooling", "curriculum_ids.dart"),
		AllowlistDir:    filepath.Join("tooling", "allowlists"),
		DispatcherStyle: dispatcher.StyleCompact.String(),
		BackupSuffix:    ".bak",
	}
}

// FileName is the default project config file name.
const FileName = ".contentfix.json"

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/contentfix/config.json if set, otherwise
// ~/.config/contentfix/config.json. Empty if neither is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "contentfix", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "contentfix", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config
// 3. Project config file (.contentfix.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty), instead of 3.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	globalCfg, gPath, err := loadOptional(globalPath(input.Env))
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = gPath
	cfg = merge(cfg, globalCfg)

	projectCfg, pPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = pPath
	cfg = merge(cfg, projectCfg)

	cfg.Style, err = dispatcher.ParseStyle(cfg.DispatcherStyle)
	if err != nil {
		return Config{}, fmt.Errorf("%w: dispatcher_style: %w", ErrConfigInvalid, err)
	}

	cfg.EffectiveCwd = workDir
	cfg.ContentDirAbs = resolve(workDir, cfg.ContentDir)
	cfg.DispatcherPathAbs = resolve(workDir, cfg.DispatcherPath)
	cfg.SSOTPathAbs = resolve(workDir, cfg.SSOTPath)
	cfg.AllowlistDirAbs = resolve(workDir, cfg.AllowlistDir)

	if cfg.RulesPath != "" {
		cfg.RulesPathAbs = resolve(workDir, cfg.RulesPath)
	}

	return cfg, nil
}

func resolve(workDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(workDir, p)
}

// loadOptional loads path if it exists. Returns the path if loaded.
func loadOptional(path string) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads the project config file or an explicit config file.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		return loadOptional(filepath.Join(workDir, FileName))
	}

	cfgFile := resolve(workDir, configPath)

	_, statErr := os.Stat(cfgFile)
	if statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	cfg, _, err := loadFile(cfgFile, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, cfgFile, nil
}

// loadFile loads a config file. If mustExist is false, a missing file returns
// a zero config and loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s: %w", ErrConfigFileRead, path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// Parse decodes one JSONC config document. Required path keys that are
// present but empty are rejected.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	err = json.Unmarshal(standardized, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	for _, key := range requiredPaths {
		if val, exists := raw[key]; exists {
			if str, ok := val.(string); ok && str == "" {
				return Config{}, fmt.Errorf("%s: %w", key, ErrPathEmpty)
			}
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&base.ContentDir, overlay.ContentDir)
	set(&base.DispatcherPath, overlay.DispatcherPath)
	set(&base.SSOTPath, overlay.SSOTPath)
	set(&base.AllowlistDir, overlay.AllowlistDir)
	set(&base.RulesPath, overlay.RulesPath)
	set(&base.DispatcherStyle, overlay.DispatcherStyle)
	set(&base.BackupSuffix, overlay.BackupSuffix)

	return base
}
