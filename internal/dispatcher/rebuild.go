package dispatcher

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/calvinalkan/contentfix/internal/fs"
)

// ErrNoModuleIDs is returned by [Rebuild] for an empty canonical id list.
var ErrNoModuleIDs = errors.New("no module ids parsed from source of truth")

// AllowlistSource supplies per-module target token overrides for a rebuild.
type AllowlistSource interface {
	// TargetTokens returns the module's tokens, or nil when the module has no
	// allowlist file.
	TargetTokens(moduleID string) ([]string, error)
}

// AllowlistFileName is the per-module allowlist file name inside the allowlist directory.
func AllowlistFileName(moduleID string) string {
	return "target_tokens_allowlist_" + moduleID + ".txt"
}

// DirAllowlists reads allowlist files from one directory.
type DirAllowlists struct {
	fs  fs.FS
	dir string
}

// NewDirAllowlists returns an [AllowlistSource] backed by dir.
func NewDirAllowlists(fsys fs.FS, dir string) *DirAllowlists {
	return &DirAllowlists{fs: fsys, dir: dir}
}

// TargetTokens reads dir/target_tokens_allowlist_<id>.txt. Blank lines and
// lines starting with '#' are skipped; duplicates keep their first position.
func (a *DirAllowlists) TargetTokens(moduleID string) ([]string, error) {
	path := filepath.Join(a.dir, AllowlistFileName(moduleID))

	exists, err := a.fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("allowlist %s: %w", path, err)
	}

	if !exists {
		return nil, nil
	}

	data, err := a.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("allowlist %s: %w", path, err)
	}

	var out []string

	seen := make(map[string]bool)

	for line := range strings.Lines(string(data)) {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || seen[s] {
			continue
		}

		seen[s] = true
		out = append(out, s)
	}

	return out, nil
}

// Rebuild produces the full record list for ids, in order.
//
// Each id carries forward the first old record with that id, if any. A
// non-empty allowlist from src replaces its target tokens. Old records whose
// id is not in ids are dropped, as is the old preamble. Missing fields are
// filled by the renderer's defaults.
func Rebuild(ids []string, old Document, src AllowlistSource) (Document, error) {
	if len(ids) == 0 {
		return Document{}, ErrNoModuleIDs
	}

	idx := old.Index()

	var doc Document

	for _, id := range ids {
		rec := Record{ModuleID: id}

		if prev, ok := idx[id]; ok {
			rec.ShortScope = prev.ShortScope
			rec.Spotkinds = prev.Spotkinds
			rec.Targets = prev.Targets
			rec.Extra = prev.Extra
		}

		if src != nil {
			toks, err := src.TargetTokens(id)
			if err != nil {
				return Document{}, err
			}

			if len(toks) > 0 {
				rec.Targets = toks
			}
		}

		doc.Records = append(doc.Records, rec)
	}

	return doc, nil
}

// RebuildChanges compares a rebuilt document with the old one per module id.
type RebuildChanges struct {
	// Changed lists ids present in both whose rebuilt rendering differs from
	// the old source span.
	Changed []string
	// Added lists ids absent from the old document.
	Added []string
	// Removed lists old ids not in the rebuilt document.
	Removed []string
	// LinesChanged is the positional line difference of the whole text.
	LinesChanged int
}

// Empty reports whether the rebuild changed nothing at record level.
func (c RebuildChanges) Empty() bool {
	return len(c.Changed) == 0 && len(c.Added) == 0 && len(c.Removed) == 0
}

// TrackRebuild computes [RebuildChanges]. oldText is the dispatcher file as
// read, newText the rebuilt rendering.
func TrackRebuild(old, rebuilt Document, oldText, newText string, d Defaults, style Style) RebuildChanges {
	var c RebuildChanges

	oldIdx := old.Index()
	newIdx := rebuilt.Index()

	for _, rec := range rebuilt.Records {
		prev, ok := oldIdx[rec.ModuleID]
		if !ok {
			c.Added = append(c.Added, rec.ModuleID)

			continue
		}

		if !slices.Equal(prev.Source, RecordLines(rec, d, style)) {
			c.Changed = append(c.Changed, rec.ModuleID)
		}
	}

	seen := make(map[string]bool)

	for _, rec := range old.Records {
		if _, ok := newIdx[rec.ModuleID]; ok || seen[rec.ModuleID] {
			continue
		}

		seen[rec.ModuleID] = true
		c.Removed = append(c.Removed, rec.ModuleID)
	}

	c.LinesChanged = countChanged(splitLines(oldText), splitLines(newText))

	return c
}
