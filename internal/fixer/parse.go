package fixer

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

// ParseError describes why a row failed the strict parse.
type ParseError struct {
	// Column is the 1-based rune column the parser stopped at.
	Column int
	// Message is the first line of the parser's message.
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

const unexpectedEnd = "unexpected end of JSON input"

// ParseObject strictly parses line as a single JSON object.
//
// The returned column is derived from the parser's byte offset: for a bad
// character it points at that character, for truncated input it points one
// past the last character.
func ParseObject(line string) (map[string]any, *ParseError) {
	var obj map[string]any

	err := json.Unmarshal([]byte(line), &obj)
	if err == nil {
		if obj == nil {
			// "null" unmarshals into a nil map without error.
			return nil, &ParseError{Column: 1, Message: "row is not a JSON object"}
		}

		return obj, nil
	}

	return nil, toParseError(line, err)
}

// Valid reports whether line parses as a JSON object.
func Valid(line string) bool {
	_, perr := ParseObject(line)

	return perr == nil
}

func toParseError(line string, err error) *ParseError {
	msg := firstLine(err.Error())

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		if syntaxErr.Error() == unexpectedEnd {
			return &ParseError{Column: runeColumn(line, len(line)), Message: msg}
		}

		return &ParseError{Column: runeColumn(line, int(syntaxErr.Offset)-1), Message: msg}
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &ParseError{Column: runeColumn(line, int(typeErr.Offset)-1), Message: msg}
	}

	return &ParseError{Column: 1, Message: msg}
}

// runeColumn converts a 0-based byte index into a 1-based rune column.
func runeColumn(line string, byteIdx int) int {
	if byteIdx < 0 {
		byteIdx = 0
	}

	if byteIdx > len(line) {
		byteIdx = len(line)
	}

	return utf8.RuneCountInString(line[:byteIdx]) + 1
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}

	return s
}
