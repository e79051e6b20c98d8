// Package textfix holds whole-file text repairs that need no parsing:
// token spelling fixes, the required-mentions footnote for theory files and
// typographic-to-ASCII folding. Every function is idempotent.
package textfix

import (
	"strings"

	"github.com/calvinalkan/contentfix/internal/rules"
)

// Spelling applies the rule table's spelling replacers.
func Spelling(r *rules.Rules, text string) string {
	return r.ApplyReplacers(text)
}

// HasMentions reports whether text names every required theory mention.
func HasMentions(th rules.Theory, text string) bool {
	for _, m := range th.RequiredMentions {
		if !strings.Contains(text, m) {
			return false
		}
	}

	return true
}

// EnsureMentions appends the mentions footnote to text lacking any required
// mention. Trailing whitespace is trimmed and the footnote is separated by
// one blank line. Returns text unchanged when nothing is missing or when no
// footnote is configured.
func EnsureMentions(th rules.Theory, text string) string {
	if th.MentionsFootnote == "" || HasMentions(th, text) {
		return text
	}

	return strings.TrimRight(text, " \t\r\n") + "\n\n" + th.MentionsFootnote + "\n"
}
