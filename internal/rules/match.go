package rules

import (
	"strings"

	"golang.org/x/text/cases"
)

// ContainsAny reports whether text contains any of words, ignoring case.
// Case is folded with Unicode simple folding, so "FV75" matches "Fv75".
func ContainsAny(text string, words []string) bool {
	if len(words) == 0 || text == "" {
		return false
	}

	fold := cases.Fold()
	folded := fold.String(text)

	for _, w := range words {
		if w == "" {
			continue
		}

		if strings.Contains(folded, fold.String(w)) {
			return true
		}
	}

	return false
}

// ContainsAll reports whether text contains every one of words, ignoring case.
func ContainsAll(text string, words []string) bool {
	fold := cases.Fold()
	folded := fold.String(text)

	for _, w := range words {
		if !strings.Contains(folded, fold.String(w)) {
			return false
		}
	}

	return true
}
