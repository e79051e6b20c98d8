package fixer

import "strings"

// literal is the byte span [start, end) of a string literal, quotes
// included. closed is false for a literal running to the end of the line.
type literal struct {
	start, end int
	closed     bool
}

// literals returns the string literals of s in order, honoring backslash
// escapes.
func literals(s string) []literal {
	var out []literal

	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}

		lit := literal{start: i, end: len(s)}

		for j := i + 1; j < len(s); j++ {
			if s[j] == '\\' {
				j++

				continue
			}

			if s[j] == '"' {
				lit.end = j + 1
				lit.closed = true

				break
			}
		}

		out = append(out, lit)
		i = lit.end - 1
	}

	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// dropTrailingCommas removes every comma outside string literals that is
// followed only by whitespace and further commas up to a '}' or ']'.
func dropTrailingCommas(s string) string {
	lits := literals(s)

	var b strings.Builder

	b.Grow(len(s))

	next := 0

	for i := 0; i < len(s); i++ {
		if next < len(lits) && i == lits[next].start {
			b.WriteString(s[i:lits[next].end])
			i = lits[next].end - 1
			next++

			continue
		}

		if s[i] != ',' {
			b.WriteByte(s[i])

			continue
		}

		j := i + 1
		for j < len(s) && (isSpace(s[j]) || s[j] == ',') {
			j++
		}

		if j < len(s) && (s[j] == '}' || s[j] == ']') {
			i = j - 1

			continue
		}

		b.WriteByte(',')
	}

	return b.String()
}

// insertSeparator finds `"before": "value"` followed by whitespace and
// `"after":`, all outside other literals, and replaces the whitespace between
// the value and the next key with ", ".
func insertSeparator(s, before, after string) string {
	lits := literals(s)
	keyBefore := `"` + before + `"`
	keyAfter := `"` + after + `"`

	var b strings.Builder

	last := 0

	for i := 0; i+2 < len(lits); i++ {
		key, val, nextKey := lits[i], lits[i+1], lits[i+2]

		if !key.closed || !val.closed || !nextKey.closed {
			continue
		}

		if s[key.start:key.end] != keyBefore || s[nextKey.start:nextKey.end] != keyAfter {
			continue
		}

		if strings.TrimSpace(s[key.end:val.start]) != ":" || strings.TrimSpace(s[val.end:nextKey.start]) != "" {
			continue
		}

		if !strings.HasPrefix(strings.TrimLeft(s[nextKey.end:], " \t"), ":") {
			continue
		}

		b.WriteString(s[last:val.end])
		b.WriteString(", ")

		last = nextKey.start
	}

	if last == 0 {
		return s
	}

	b.WriteString(s[last:])

	return b.String()
}
