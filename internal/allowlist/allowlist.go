// Package allowlist derives per-module target token allowlist files from
// drill rows.
//
// An allowlist is the sorted, de-duplicated set of non-empty drill targets,
// one per line. Files are regenerated wholesale; hand edits are overwritten
// on the next write.
package allowlist

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/dispatcher"
	"github.com/calvinalkan/contentfix/internal/fs"
	"github.com/calvinalkan/contentfix/internal/persist"
	"github.com/calvinalkan/contentfix/internal/rows"
	"github.com/calvinalkan/contentfix/internal/textfix"
)

// Finding kinds.
const (
	KindNoTargets = "no-targets"
	KindNonASCII  = "non-ascii"
	KindMalformed = "malformed"
	KindOutdated  = "outdated"
)

// Finding is a problem found while deriving allowlists.
type Finding struct {
	Kind string
	// Where is the labeled path, with ":line" for malformed rows.
	Where string
}

func (f Finding) String() string {
	return "[" + f.Kind + "] " + f.Where
}

// IsError reports whether the finding fails a write run. Outdated files are
// only findings in check mode.
func (f Finding) IsError() bool {
	return f.Kind != KindOutdated
}

// File is one derived allowlist.
type File struct {
	Module string
	Path   string
	Want   []byte
	Have   []byte
}

// Outdated reports whether the file on disk differs from the derived content.
func (f File) Outdated() bool {
	return string(f.Want) != string(f.Have)
}

// Plan is the result of deriving every allowlist.
type Plan struct {
	Files    []File
	Findings []Finding
}

// Errors returns findings that are not [KindOutdated].
func (p Plan) Errors() []Finding {
	var out []Finding

	for _, f := range p.Findings {
		if f.IsError() {
			out = append(out, f)
		}
	}

	return out
}

// Syncer derives and writes allowlist files.
type Syncer struct {
	fs      fs.FS
	dir     string
	durable persist.Durable
	log     *zap.Logger

	// Label maps a path to the text printed in findings. Defaults to identity.
	Label func(string) string
}

// NewSyncer returns a Syncer writing into dir through durable.
func NewSyncer(fsys fs.FS, dir string, durable persist.Durable, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}

	return &Syncer{fs: fsys, dir: dir, durable: durable, log: log, Label: func(p string) string { return p }}
}

// Path returns the allowlist file of a module.
func (s *Syncer) Path(module string) string {
	return filepath.Join(s.dir, dispatcher.AllowlistFileName(module))
}

// Targets returns the sorted unique non-empty string targets of drill rows
// and the line numbers of rows that do not parse.
func Targets(data []byte) (targets []string, malformed []int) {
	set := make(map[string]bool)

	for _, r := range rows.Parse(data) {
		if r.Blank() {
			continue
		}

		if r.Err != nil {
			malformed = append(malformed, r.Line)

			continue
		}

		t, _ := r.Object["target"].(string)
		if t = strings.TrimSpace(t); t != "" {
			set[t] = true
		}
	}

	for t := range set {
		targets = append(targets, t)
	}

	sort.Strings(targets)

	return targets, malformed
}

// Render serializes targets one per line with a trailing LF.
func Render(targets []string) []byte {
	if len(targets) == 0 {
		return nil
	}

	return []byte(strings.Join(targets, "\n") + "\n")
}

// Plan derives the allowlist of every module with a drills file. Outdated
// files are recorded as findings. Cancellation is checked between modules.
func (s *Syncer) Plan(ctx context.Context, mods []content.Module) (Plan, error) {
	var plan Plan

	for _, m := range mods {
		if m.Drills == "" {
			continue
		}

		if err := ctx.Err(); err != nil {
			return plan, err
		}

		data, err := s.fs.ReadFile(m.Drills)
		if err != nil {
			return plan, fmt.Errorf("read %s: %w", m.Drills, err)
		}

		targets, malformed := Targets(data)

		for _, line := range malformed {
			plan.Findings = append(plan.Findings, Finding{Kind: KindMalformed, Where: fmt.Sprintf("%s:%d", s.Label(m.Drills), line)})
		}

		if len(targets) == 0 {
			plan.Findings = append(plan.Findings, Finding{Kind: KindNoTargets, Where: s.Label(m.Drills)})

			continue
		}

		f := File{Module: m.Name, Path: s.Path(m.Name), Want: Render(targets)}

		exists, err := s.fs.Exists(f.Path)
		if err != nil {
			return plan, fmt.Errorf("stat %s: %w", f.Path, err)
		}

		if exists {
			f.Have, err = s.fs.ReadFile(f.Path)
			if err != nil {
				return plan, fmt.Errorf("read %s: %w", f.Path, err)
			}
		}

		if !textfix.IsASCII(string(f.Want)) {
			plan.Findings = append(plan.Findings, Finding{Kind: KindNonASCII, Where: s.Label(f.Path)})
		}

		if f.Outdated() {
			plan.Findings = append(plan.Findings, Finding{Kind: KindOutdated, Where: s.Label(f.Path)})
		}

		s.log.Debug("allowlist derived",
			zap.String("module", m.Name),
			zap.Int("targets", len(targets)),
			zap.Bool("outdated", f.Outdated()),
		)

		plan.Files = append(plan.Files, f)
	}

	return plan, nil
}

// Write commits every outdated file of plan and returns the paths written.
func (s *Syncer) Write(plan Plan) ([]string, error) {
	var written []string

	for _, f := range plan.Files {
		if !f.Outdated() {
			continue
		}

		out, err := s.durable.Commit(f.Path, f.Have, f.Want)
		if err != nil {
			return written, fmt.Errorf("write %s: %w", f.Path, err)
		}

		if out.Written {
			written = append(written, f.Path)
		}
	}

	return written, nil
}
