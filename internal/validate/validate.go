package validate

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/calvinalkan/contentfix/internal/content"
	"github.com/calvinalkan/contentfix/internal/dispatcher"
	"github.com/calvinalkan/contentfix/internal/fs"
	"github.com/calvinalkan/contentfix/internal/rows"
	"github.com/calvinalkan/contentfix/internal/rules"
)

// Validator checks theory, demo, drill and dispatcher files.
type Validator struct {
	rules *rules.Rules
	fs    fs.FS
	log   *zap.Logger

	// Label maps a file path to the path printed in issues. Defaults to identity.
	Label func(string) string
}

// New returns a Validator. A nil logger is replaced by a no-op logger.
// Panics if r or fsys is nil.
func New(r *rules.Rules, fsys fs.FS, log *zap.Logger) *Validator {
	if r == nil {
		panic("rules is nil")
	}

	if fsys == nil {
		panic("fs is nil")
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Validator{rules: r, fs: fsys, log: log, Label: func(p string) string { return p }}
}

// Modules validates every file of every module. Cancellation is checked
// between files. Unreadable files are reported as errors, not returned.
func (v *Validator) Modules(ctx context.Context, mods []content.Module) (*Report, error) {
	rep := &Report{}

	for _, m := range mods {
		for _, path := range m.Files() {
			if err := ctx.Err(); err != nil {
				return rep, err
			}

			rep.Add(v.File(path)...)
		}
	}

	return rep, nil
}

// File reads and validates one file according to its role.
func (v *Validator) File(path string) []Issue {
	label := v.Label(path)

	data, err := v.fs.ReadFile(path)
	if err != nil {
		return []Issue{{Severity: Error, Path: label, Message: fmt.Sprintf("read error: %v", err)}}
	}

	var issues []Issue

	switch content.RoleOf(path) {
	case content.RoleTheory:
		issues = v.Theory(label, string(data))
	case content.RoleDemos:
		issues = v.Demos(label, data)
	case content.RoleDrills:
		issues = v.Drills(label, data)
	default:
		return nil
	}

	v.log.Debug("validated",
		zap.String("file", label),
		zap.Int("issues", len(issues)),
	)

	return issues
}

// Theory checks prose for section markers, required token mentions and
// off-tree sizing phrases. All findings are warnings. Matching is exact.
func (v *Validator) Theory(path, text string) []Issue {
	if text == "" {
		return nil
	}

	var issues []Issue

	warn := func(msg string) {
		issues = append(issues, Issue{Severity: Warning, Path: path, Message: msg})
	}

	th := v.rules.Theory

	for _, s := range th.RequiredSections {
		if !strings.Contains(text, s) {
			warn("missing section: " + s)
		}
	}

	for _, m := range th.RequiredMentions {
		if !strings.Contains(text, m) {
			warn("missing mention: " + m)
		}
	}

	for _, s := range th.OffTreeSizes {
		if strings.Contains(text, s) {
			warn("possible off-tree sizing mention found")

			break
		}
	}

	return issues
}

// objects yields every parseable non-blank row in line order. Rows that are
// not a single JSON object are appended to issues as errors when the loop
// reaches them, so parse errors and row findings stay in line order.
func objects(path string, data []byte, issues *[]Issue) iter.Seq[rows.Row] {
	return func(yield func(rows.Row) bool) {
		for i, r := range rows.Parse(data) {
			if r.Blank() {
				continue
			}

			text := strings.TrimSpace(r.Text)
			if i == 0 {
				text = strings.TrimSpace(strings.TrimPrefix(text, rows.BOM))
			}

			if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
				*issues = append(*issues, Issue{Severity: Error, Path: path, Line: r.Line, Message: "malformed JSONL line"})

				continue
			}

			if r.Err != nil {
				*issues = append(*issues, Issue{Severity: Error, Path: path, Line: r.Line, Message: "json parse error: " + r.Err.Message})

				continue
			}

			if !yield(r) {
				return
			}
		}
	}
}

func missingKeys(obj map[string]any, keys []string) []string {
	var out []string

	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			out = append(out, k)
		}
	}

	return out
}

// stringList returns the string elements of v and whether v is a list of
// strings only.
func stringList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(list))
	all := true

	for _, e := range list {
		s, ok := e.(string)
		if !ok {
			all = false

			continue
		}

		out = append(out, s)
	}

	return out, all
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)

	return s
}

// Demos checks example rows: required keys and the steps list are errors;
// context hints and gate mentions in the step text are warnings.
func (v *Validator) Demos(path string, data []byte) []Issue {
	var issues []Issue

	r := v.rules

	for row := range objects(path, data, &issues) {
		add := func(sev Severity, msg string) {
			issues = append(issues, Issue{Severity: sev, Path: path, Line: row.Line, Message: msg})
		}

		obj := row.Object

		for _, k := range missingKeys(obj, r.Rows.DemoRequired) {
			add(Error, "missing key: "+k)
		}

		var steps []string

		if raw, ok := obj["steps"]; ok {
			list, all := stringList(raw)
			if !all {
				add(Error, "steps must be list[str]")
			}

			steps = list
		}

		text := strings.Join(steps, " | ")

		if rules.ContainsAny(text, r.StaticHints) && rules.ContainsAny(text, r.SoftDynamicTargets) {
			add(Warning, "dynamic-style target on static hints (review)")
		}

		if rules.ContainsAny(text, r.DynamicHints) && rules.ContainsAny(text, r.SoftStaticTargets) {
			add(Warning, "static-style target on dynamic hints (review)")
		}

		for _, g := range r.DemoGates {
			for _, t := range g.Targets {
				if strings.Contains(text, t) && !rules.ContainsAny(text, g.AnyOf) {
					add(Warning, t+" "+g.Message)
				}
			}
		}
	}

	return issues
}

// Drills checks drill rows. Missing keys and targets outside the token set
// are errors; co-mention gates and context hints are warnings.
func (v *Validator) Drills(path string, data []byte) []Issue {
	var issues []Issue

	r := v.rules

	for row := range objects(path, data, &issues) {
		add := func(sev Severity, msg string) {
			issues = append(issues, Issue{Severity: sev, Path: path, Line: row.Line, Message: msg})
		}

		obj := row.Object

		for _, k := range missingKeys(obj, r.Rows.DrillRequired) {
			add(Error, "missing key: "+k)
		}

		tgt := stringField(obj, "target")
		if raw, ok := obj["target"]; ok && tgt == "" && raw != nil {
			if _, isString := raw.(string); !isString {
				add(Error, "target must be a string")
			}
		}

		if tgt != "" && !r.IsToken(tgt) {
			add(Error, "unknown target token: "+tgt)
		}

		body := stringField(obj, "question") + " || " + stringField(obj, "rationale")

		for _, g := range r.DrillGates {
			if tgt != "" && slices.Contains(g.Targets, tgt) && !rules.ContainsAny(body, g.AnyOf) {
				add(Warning, "'"+tgt+"' "+g.Message)
			}
		}

		if r.IsSoftStatic(tgt) && rules.ContainsAny(body, r.DynamicHints) {
			add(Warning, "static target on dynamic hints (review)")
		}

		if r.IsSoftDynamic(tgt) && rules.ContainsAny(body, r.StaticHints) {
			add(Warning, "dynamic target on static hints (review)")
		}
	}

	return issues
}

// Dispatcher checks the dispatcher index: an empty module_id is an error;
// placeholder scopes, duplicate ids and unknown target allowlist items are
// warnings. The target sentinel is exempt.
func (v *Validator) Dispatcher(path, text string) []Issue {
	var issues []Issue

	d := dispatcher.DefaultsFromRules(v.rules)
	seen := make(map[string]bool)

	for _, rec := range dispatcher.Parse(text).Records {
		add := func(sev Severity, msg string) {
			issues = append(issues, Issue{Severity: sev, Path: path, Line: rec.StartLine, Message: msg})
		}

		if rec.ModuleID == "" {
			add(Error, "empty module_id")

			continue
		}

		if seen[rec.ModuleID] {
			add(Warning, "duplicate module_id: "+rec.ModuleID)
		}

		seen[rec.ModuleID] = true

		if rec.ShortScope == "" || rec.ShortScope == d.ScopePlaceholder {
			add(Warning, "placeholder short_scope: "+rec.ModuleID)
		}

		for _, t := range rec.Targets {
			if t != d.TargetDefault && !v.rules.IsToken(t) {
				add(Warning, "unknown token in target_tokens_allowlist: "+t)
			}
		}
	}

	return issues
}

// DispatcherFile reads and checks the dispatcher index. A missing file is
// reported as an error.
func (v *Validator) DispatcherFile(path string) []Issue {
	label := v.Label(path)

	data, err := v.fs.ReadFile(path)
	if err != nil {
		return []Issue{{Severity: Error, Path: label, Message: fmt.Sprintf("read error: %v", err)}}
	}

	return v.Dispatcher(label, string(data))
}
