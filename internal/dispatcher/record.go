// Package dispatcher parses, normalizes and rebuilds the dispatcher index: a
// text file of four-field module records.
//
//	module_id: core_starting_hands
//	short_scope: Opening ranges by position
//	spotkind_allowlist:
//	  l2_core_rules_check
//	target_tokens_allowlist:
//	  call
//	  fold
//
// Parsing is tolerant (tabs, trailing spaces, blank lines, duplicated items,
// missing fields); rendering always produces the canonical form for the
// configured [Style], and rendering is a fixed point: parsing and rendering
// canonical output yields the same text.
package dispatcher

import (
	"errors"
	"fmt"

	"github.com/calvinalkan/contentfix/internal/rules"
)

// Field headers, in canonical order.
const (
	HeaderModuleID   = "module_id:"
	HeaderShortScope = "short_scope:"
	HeaderSpotkinds  = "spotkind_allowlist:"
	HeaderTargets    = "target_tokens_allowlist:"
)

const itemIndent = "  "

// Record is one module block.
type Record struct {
	ModuleID   string
	ShortScope string
	Spotkinds  []string
	Targets    []string
	// Extra holds unrecognized non-blank lines found outside the lists. They
	// are kept so normalization never drops text.
	Extra []string

	// StartLine is the 1-based line of the module_id header in the source.
	StartLine int
	// Source is the record's original span: from its header up to the next
	// header or end of input, CR stripped.
	Source []string
}

// Defaults fill fields that are absent or empty.
type Defaults struct {
	ScopePlaceholder string
	SpotkindDefault  string
	TargetDefault    string
}

// DefaultsFromRules reads the dispatcher defaults from the rule tables.
func DefaultsFromRules(r *rules.Rules) Defaults {
	return Defaults{
		ScopePlaceholder: r.Dispatcher.ScopePlaceholder,
		SpotkindDefault:  r.Dispatcher.SpotkindDefault,
		TargetDefault:    r.Dispatcher.TargetDefault,
	}
}

// withDefaults returns a copy of rec with empty fields defaulted.
func (rec Record) withDefaults(d Defaults) Record {
	if rec.ShortScope == "" {
		rec.ShortScope = d.ScopePlaceholder
	}

	if len(rec.Spotkinds) == 0 {
		rec.Spotkinds = []string{d.SpotkindDefault}
	}

	if len(rec.Targets) == 0 {
		rec.Targets = []string{d.TargetDefault}
	}

	return rec
}

// Style selects one of the two canonical renderings.
type Style int

const (
	// StyleCompact renders records with no blank lines at all.
	StyleCompact Style = iota
	// StyleSpaced renders one blank line after each allowlist.
	StyleSpaced
)

// ErrUnknownStyle is returned by [ParseStyle].
var ErrUnknownStyle = errors.New("unknown dispatcher style (valid: compact, spaced)")

// ParseStyle parses a config value. Empty means [StyleCompact].
func ParseStyle(s string) (Style, error) {
	switch s {
	case "", "compact":
		return StyleCompact, nil
	case "spaced":
		return StyleSpaced, nil
	default:
		return StyleCompact, fmt.Errorf("%w: %q", ErrUnknownStyle, s)
	}
}

func (s Style) String() string {
	if s == StyleSpaced {
		return "spaced"
	}

	return "compact"
}
