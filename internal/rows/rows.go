// Package rows reads line-delimited JSON object files row by row.
//
// Row boundaries and line terminators are preserved exactly, so a file can be
// re-assembled byte for byte after individual rows are replaced.
package rows

import (
	"strings"

	"github.com/calvinalkan/contentfix/internal/fixer"
)

// BOM is the UTF-8 byte-order mark, honored only at the start of a file.
const BOM = "\ufeff"

// Row is one line of a row file.
type Row struct {
	// Line is the 1-based line number.
	Line int
	// Text is the line without its terminator.
	Text string
	// Newline is the terminator that ended the line: "\n", "\r\n" or "" for
	// a final line without one.
	Newline string
	// Object is the parsed row, nil for blank or malformed rows.
	Object map[string]any
	// Err is the strict parse failure, nil for blank or valid rows.
	Err *fixer.ParseError
}

// Blank reports whether the row holds only whitespace. Blank rows are never parsed.
func (r Row) Blank() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Split splits data into rows without parsing them. A leading byte-order
// mark stays in the first row's Text.
func Split(data []byte) []Row {
	text := string(data)
	if text == "" {
		return nil
	}

	var out []Row

	line := 1

	for text != "" {
		var body, nl string

		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			body, text = text, ""
		} else {
			body, text = text[:idx], text[idx+1:]
			nl = "\n"
		}

		if strings.HasSuffix(body, "\r") {
			body = body[:len(body)-1]
			nl = "\r" + nl
		}

		out = append(out, Row{Line: line, Text: body, Newline: nl})
		line++
	}

	return out
}

// Parse splits data and strictly parses every non-blank row. A leading
// byte-order mark is ignored for parsing.
func Parse(data []byte) []Row {
	out := Split(data)

	for i := range out {
		if out[i].Blank() {
			continue
		}

		text := out[i].Text
		if i == 0 {
			text = strings.TrimPrefix(text, BOM)
		}

		out[i].Object, out[i].Err = fixer.ParseObject(text)
	}

	return out
}

// Join re-assembles rows into file content.
func Join(rs []Row) []byte {
	var b strings.Builder

	for _, r := range rs {
		b.WriteString(r.Text)
		b.WriteString(r.Newline)
	}

	return []byte(b.String())
}
