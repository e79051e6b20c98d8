package dispatcher

import (
	"strings"
)

// RecordLines renders one record in canonical form, defaults applied.
func RecordLines(rec Record, d Defaults, style Style) []string {
	rec = rec.withDefaults(d)

	lines := make([]string, 0, 6+len(rec.Extra)+len(rec.Spotkinds)+len(rec.Targets))

	lines = append(lines, headerLine(HeaderModuleID, rec.ModuleID))
	lines = append(lines, headerLine(HeaderShortScope, rec.ShortScope))
	lines = append(lines, rec.Extra...)

	lines = append(lines, HeaderSpotkinds)
	for _, it := range rec.Spotkinds {
		lines = append(lines, itemIndent+it)
	}

	if style == StyleSpaced {
		lines = append(lines, "")
	}

	lines = append(lines, HeaderTargets)
	for _, it := range rec.Targets {
		lines = append(lines, itemIndent+it)
	}

	if style == StyleSpaced {
		lines = append(lines, "")
	}

	return lines
}

// PreambleLines renders the preamble. In spaced style a non-empty preamble is
// followed by one blank line.
func PreambleLines(pre []string, style Style) []string {
	if len(pre) == 0 {
		return nil
	}

	out := append([]string(nil), pre...)
	if style == StyleSpaced {
		out = append(out, "")
	}

	return out
}

// Render serializes doc in canonical form. Every line ends with LF.
func Render(doc Document, d Defaults, style Style) string {
	var b strings.Builder

	writeLines(&b, PreambleLines(doc.Preamble, style))

	for _, rec := range doc.Records {
		writeLines(&b, RecordLines(rec, d, style))
	}

	return b.String()
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

func headerLine(header, value string) string {
	if value == "" {
		return header
	}

	return header + " " + value
}
