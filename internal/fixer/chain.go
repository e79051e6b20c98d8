// Package fixer repairs single malformed rows of a line-delimited JSON file.
//
// A [Chain] applies an ordered list of [Step]s to a row that failed the strict
// parse. Every step works on the output of the previous one, and the chain
// stops at the first candidate that parses. Steps are purely syntactic: a
// step never invents keys or values, and applying a step to text that already
// parses is a no-op.
package fixer

import (
	"strings"

	"github.com/calvinalkan/contentfix/internal/rules"
)

// Step is one text repair.
type Step struct {
	Name  string
	Apply func(string) string
}

// Chain is an ordered list of repair steps.
type Chain struct {
	steps []Step
}

// Result is the outcome of [Chain.Repair].
type Result struct {
	// Text is the repaired row on success, or the last candidate tried on failure.
	Text string
	// OK is true when Text parses.
	OK bool
	// Step names the step that produced the parsing candidate; empty when the
	// row was already valid or could not be repaired.
	Step string
	// Err is the parse failure of the last candidate. Nil when OK.
	Err *ParseError
}

// NewChain returns a chain running steps in the given order.
func NewChain(steps ...Step) *Chain {
	return &Chain{steps: steps}
}

// DefaultChain builds the standard three-step chain: strip trailing
// whitespace, drop trailing commas before a closing bracket, and
// insert the missing comma between each configured field pair.
func DefaultChain(r *rules.Rules) *Chain {
	return NewChain(
		StripStep(),
		TrailingCommaStep(),
		MissingSeparatorStep(r.Fixer.SeparatorPairs),
	)
}

// Steps returns the step names in order.
func (c *Chain) Steps() []string {
	names := make([]string, len(c.steps))
	for i, s := range c.steps {
		names[i] = s.Name
	}

	return names
}

// Repair returns line unchanged if it already parses. Otherwise it applies
// the steps cumulatively, re-parsing after each one, and stops at the first
// success. On failure Text holds the final candidate and Err the parser's
// complaint about it.
func (c *Chain) Repair(line string) Result {
	_, perr := ParseObject(line)
	if perr == nil {
		return Result{Text: line, OK: true}
	}

	candidate := line

	for _, step := range c.steps {
		candidate = step.Apply(candidate)

		_, perr = ParseObject(candidate)
		if perr == nil {
			return Result{Text: candidate, OK: true, Step: step.Name}
		}
	}

	return Result{Text: candidate, Err: perr}
}

// StripStep removes trailing spaces and tabs. A byte-order mark is a
// property of the file, not of a row, and is dropped by the row reader.
func StripStep() Step {
	return Step{
		Name: "strip",
		Apply: func(s string) string {
			return strings.TrimRight(s, " \t")
		},
	}
}

// TrailingCommaStep removes commas that directly precede a closing brace or
// bracket, with the whitespace between them. String contents are never
// touched.
func TrailingCommaStep() Step {
	return Step{
		Name:  "trailing-comma",
		Apply: dropTrailingCommas,
	}
}

// MissingSeparatorStep inserts ", " between a string-valued field and the
// field that should follow it when the two are written back to back, as in
// `"spot_kind": "k""steps": [...]`. Only keys outside string literals match.
func MissingSeparatorStep(pairs []rules.FieldPair) Step {
	return Step{
		Name: "missing-separator",
		Apply: func(s string) string {
			for _, p := range pairs {
				s = insertSeparator(s, p.Before, p.After)
			}

			return s
		},
	}
}
