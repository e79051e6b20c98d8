package textfix

import (
	"fmt"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const ellipsis = '\u2026'

// zeroWidth matches the runes removed outright.
var zeroWidth = runes.Predicate(func(r rune) bool { return r == '\u200b' })

// asciiRune maps typographic punctuation and spaces to ASCII.
func asciiRune(r rune) rune {
	switch r {
	case '\u2018', '\u2019', '\u201a', '\u201b':
		return '\''
	case '\u201c', '\u201d', '\u201e':
		return '"'
	case '\u2013', '\u2014', '\u2212':
		return '-'
	case '\u00a0', '\u2009', '\u200a':
		return ' '
	default:
		return r
	}
}

// FoldASCII composes text to NFC, then replaces curly quotes, dashes, the
// minus sign, no-break, thin and hair spaces with ASCII, expands the
// ellipsis to three dots and removes zero-width spaces. Other characters are
// kept.
func FoldASCII(text string) (string, error) {
	t := transform.Chain(norm.NFC, runes.Remove(zeroWidth), runes.Map(asciiRune))

	out, _, err := transform.String(t, text)
	if err != nil {
		return text, fmt.Errorf("fold: %w", err)
	}

	return strings.ReplaceAll(out, string(ellipsis), "..."), nil
}

// IsASCII reports whether s holds only ASCII characters.
func IsASCII(s string) bool {
	for i := range len(s) {
		if s[i] >= 0x80 {
			return false
		}
	}

	return true
}
