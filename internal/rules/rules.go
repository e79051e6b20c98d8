// Package rules holds the lookup tables the fixers and the validator consume:
// the allowed target tokens, hint words, co-mention gates, required row keys,
// alias maps and text replacers.
//
// Tables are data, not code. [Default] returns the embedded table set and
// [Load] reads a replacement YAML document, so tests and projects can
// substitute their own vocabulary.
package rules

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var (
	ErrRulesRead    = errors.New("cannot read rules file")
	ErrRulesInvalid = errors.New("invalid rules")
)

// Rules is the full table set.
type Rules struct {
	Tokens       []string `yaml:"tokens"`
	SizeTokens   []string `yaml:"size_tokens"`
	FamilyTokens []string `yaml:"family_tokens"`

	StaticHints        []string `yaml:"static_hints"`
	DynamicHints       []string `yaml:"dynamic_hints"`
	SoftStaticTargets  []string `yaml:"soft_static_targets"`
	SoftDynamicTargets []string `yaml:"soft_dynamic_targets"`

	DrillGates []Gate `yaml:"drill_gates"`
	DemoGates  []Gate `yaml:"demo_gates"`

	Theory     Theory             `yaml:"theory"`
	Rows       RowKeys            `yaml:"rows"`
	Fixer      Fixer              `yaml:"fixer"`
	SSOT       SSOT               `yaml:"ssot"`
	Dispatcher DispatcherDefaults `yaml:"dispatcher"`

	Aliases         map[string]string `yaml:"aliases"`
	AliasHeuristics []Heuristic       `yaml:"alias_heuristics"`
	AliasFallback   string            `yaml:"alias_fallback"`

	Replacers []Replacer `yaml:"replacers"`

	tokenSet map[string]struct{}
}

// Gate is a co-mention rule: a row whose target (or, for demos, whose step
// text) names one of Targets must also mention one of AnyOf.
type Gate struct {
	Targets []string `yaml:"targets"`
	AnyOf   []string `yaml:"any_of"`
	Message string   `yaml:"message"`
}

// Theory holds the prose checks for theory files.
type Theory struct {
	RequiredSections []string `yaml:"required_sections"`
	RequiredMentions []string `yaml:"required_mentions"`
	OffTreeSizes     []string `yaml:"off_tree_sizes"`
	MentionsFootnote string   `yaml:"mentions_footnote"`
}

// RowKeys lists the keys each row role must carry.
type RowKeys struct {
	DemoRequired  []string `yaml:"demo_required"`
	DrillRequired []string `yaml:"drill_required"`
}

// Fixer configures the row fixer chain.
type Fixer struct {
	SeparatorPairs []FieldPair `yaml:"separator_pairs"`
}

// FieldPair names two fields that are commonly written back to back without
// a separating comma.
type FieldPair struct {
	Before string `yaml:"before"`
	After  string `yaml:"after"`
}

// SSOT filters quoted identifiers in the source-of-truth file.
type SSOT struct {
	IDPrefixes []string `yaml:"id_prefixes"`
	IDExtras   []string `yaml:"id_extras"`
}

// DispatcherDefaults are the values used for absent record fields.
type DispatcherDefaults struct {
	ScopePlaceholder string `yaml:"scope_placeholder"`
	SpotkindDefault  string `yaml:"spotkind_default"`
	TargetDefault    string `yaml:"target_default"`
}

// Heuristic maps an unknown token to Token when the lowercased token has
// Prefix, contains every entry of Contains and none of Excludes.
type Heuristic struct {
	Token    string   `yaml:"token"`
	Prefix   string   `yaml:"prefix"`
	Contains []string `yaml:"contains"`
	Excludes []string `yaml:"excludes"`
}

// Replacer is a regex spelling repair.
type Replacer struct {
	Pattern    string `yaml:"pattern"`
	Replace    string `yaml:"replace"`
	IgnoreCase bool   `yaml:"ignore_case"`

	re *regexp.Regexp
}

// Regexp returns the compiled pattern. Only valid on rules returned by [Parse].
func (r Replacer) Regexp() *regexp.Regexp {
	return r.re
}

// Default returns the embedded rule tables.
func Default() *Rules {
	r, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}

	return r
}

// Load reads rules from path. An empty path returns [Default].
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRulesRead, path, err)
	}

	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return r, nil
}

// Parse decodes and validates a YAML rules document.
func Parse(data []byte) (*Rules, error) {
	var r Rules

	err := yaml.Unmarshal(data, &r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRulesInvalid, err)
	}

	err = r.init()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRulesInvalid, err)
	}

	return &r, nil
}

func (r *Rules) init() error {
	if len(r.Tokens) == 0 {
		return errors.New("tokens is empty")
	}

	r.tokenSet = make(map[string]struct{}, len(r.Tokens))
	for _, t := range r.Tokens {
		r.tokenSet[t] = struct{}{}
	}

	var errs []error

	checkTokens := func(where string, toks ...string) {
		for _, t := range toks {
			if !r.IsToken(t) {
				errs = append(errs, fmt.Errorf("%s: %q is not an allowed token", where, t))
			}
		}
	}

	checkTokens("size_tokens", r.SizeTokens...)
	checkTokens("family_tokens", r.FamilyTokens...)
	checkTokens("soft_static_targets", r.SoftStaticTargets...)
	checkTokens("soft_dynamic_targets", r.SoftDynamicTargets...)

	for i, g := range r.DrillGates {
		checkTokens(fmt.Sprintf("drill_gates[%d]", i), g.Targets...)

		if len(g.AnyOf) == 0 {
			errs = append(errs, fmt.Errorf("drill_gates[%d]: any_of is empty", i))
		}
	}

	for i, g := range r.DemoGates {
		if len(g.AnyOf) == 0 {
			errs = append(errs, fmt.Errorf("demo_gates[%d]: any_of is empty", i))
		}
	}

	for alias, tok := range r.Aliases {
		checkTokens("aliases."+alias, tok)
	}

	for i, h := range r.AliasHeuristics {
		checkTokens(fmt.Sprintf("alias_heuristics[%d]", i), h.Token)

		if h.Prefix == "" && len(h.Contains) == 0 {
			errs = append(errs, fmt.Errorf("alias_heuristics[%d]: needs prefix or contains", i))
		}
	}

	if r.AliasFallback != "" {
		checkTokens("alias_fallback", r.AliasFallback)
	}

	for i, p := range r.Fixer.SeparatorPairs {
		if p.Before == "" || p.After == "" {
			errs = append(errs, fmt.Errorf("fixer.separator_pairs[%d]: before and after are required", i))
		}
	}

	d := r.Dispatcher
	if d.ScopePlaceholder == "" || d.SpotkindDefault == "" || d.TargetDefault == "" {
		errs = append(errs, errors.New("dispatcher: scope_placeholder, spotkind_default and target_default are required"))
	}

	for i := range r.Replacers {
		pattern := r.Replacers[i].Pattern
		if r.Replacers[i].IgnoreCase {
			pattern = "(?i)" + pattern
		}

		re, err := regexp.Compile(pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("replacers[%d]: %w", i, err))

			continue
		}

		r.Replacers[i].re = re
	}

	return errors.Join(errs...)
}

// IsToken reports whether t is in the allowed token set.
func (r *Rules) IsToken(t string) bool {
	_, ok := r.tokenSet[t]

	return ok
}

// IsSoftStatic reports whether t is usually played on static boards.
func (r *Rules) IsSoftStatic(t string) bool {
	return slices.Contains(r.SoftStaticTargets, t)
}

// IsSoftDynamic reports whether t is usually played on dynamic boards.
func (r *Rules) IsSoftDynamic(t string) bool {
	return slices.Contains(r.SoftDynamicTargets, t)
}
