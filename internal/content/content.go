// Package content locates module files in the content tree:
//
//	<root>/<module>/v1/theory.md
//	<root>/<module>/v1/demos.jsonl
//	<root>/<module>/v1/drills.jsonl
package content

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/calvinalkan/contentfix/internal/fs"
)

// Version is the only content version directory that is scanned.
const Version = "v1"

// File names inside a module version directory.
const (
	TheoryFile = "theory.md"
	DemosFile  = "demos.jsonl"
	DrillsFile = "drills.jsonl"
)

// Role classifies a content file.
type Role int

const (
	RoleUnknown Role = iota
	RoleTheory
	RoleDemos
	RoleDrills
)

func (r Role) String() string {
	switch r {
	case RoleTheory:
		return "theory"
	case RoleDemos:
		return "demos"
	case RoleDrills:
		return "drills"
	default:
		return "unknown"
	}
}

// RoleOf classifies path by its base name.
func RoleOf(path string) Role {
	switch filepath.Base(path) {
	case TheoryFile:
		return RoleTheory
	case DemosFile:
		return RoleDemos
	case DrillsFile:
		return RoleDrills
	default:
		return RoleUnknown
	}
}

// Module is one module's version directory. File paths are empty when the
// file does not exist.
type Module struct {
	Name   string
	Dir    string
	Theory string
	Demos  string
	Drills string
}

// Files returns the existing files in theory, demos, drills order.
func (m Module) Files() []string {
	var out []string

	for _, p := range []string{m.Theory, m.Demos, m.Drills} {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// RowFiles returns the existing demos and drills files.
func (m Module) RowFiles() []string {
	var out []string

	for _, p := range []string{m.Demos, m.Drills} {
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

// Discover lists modules under root sorted by name. Directories without a
// v1 subdirectory are skipped. A missing root yields no modules.
func Discover(fsys fs.FS, root string) ([]Module, error) {
	exists, err := fsys.Exists(root)
	if err != nil {
		return nil, fmt.Errorf("content dir %s: %w", root, err)
	}

	if !exists {
		return nil, nil
	}

	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("content dir %s: %w", root, err)
	}

	var mods []Module

	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}

		dir := filepath.Join(root, e.Name(), Version)

		info, err := fsys.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		mod := Module{Name: e.Name(), Dir: dir}

		mod.Theory, err = existing(fsys, filepath.Join(dir, TheoryFile))
		if err != nil {
			return nil, err
		}

		mod.Demos, err = existing(fsys, filepath.Join(dir, DemosFile))
		if err != nil {
			return nil, err
		}

		mod.Drills, err = existing(fsys, filepath.Join(dir, DrillsFile))
		if err != nil {
			return nil, err
		}

		mods = append(mods, mod)
	}

	return mods, nil
}

func existing(fsys fs.FS, path string) (string, error) {
	ok, err := fsys.Exists(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	if !ok {
		return "", nil
	}

	return path, nil
}

// ModuleOf returns the module name of a file laid out as
// <root>/<module>/v1/<file>, or "" when path does not follow the layout.
func ModuleOf(path string) string {
	dir := filepath.Dir(path)
	if filepath.Base(dir) != Version {
		return ""
	}

	return filepath.Base(filepath.Dir(dir))
}

// ExpandPatterns resolves file arguments. Each pattern is a file path or a
// glob; relative patterns are joined to base. Results keep pattern order,
// are sorted within one glob, and contain no duplicates. A pattern matching
// nothing is reported in missing.
func ExpandPatterns(base string, patterns []string) (files, missing []string, err error) {
	seen := make(map[string]bool)

	for _, p := range patterns {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(base, p)
		}

		matches, err := filepath.Glob(abs)
		if err != nil {
			return nil, nil, fmt.Errorf("pattern %q: %w", p, err)
		}

		if len(matches) == 0 {
			missing = append(missing, p)

			continue
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	return files, missing, nil
}
