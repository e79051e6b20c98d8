package fixer

import (
	"fmt"
	"io"
	"strings"
)

// Diagnostic is a row the chain could not repair.
type Diagnostic struct {
	Path    string
	Line    int
	Column  int
	Message string
	// Text is the final candidate the parser rejected.
	Text string
}

// NewDiagnostic builds a diagnostic from a failed [Result].
func NewDiagnostic(path string, line int, res Result) Diagnostic {
	d := Diagnostic{Path: path, Line: line, Column: 1, Text: res.Text}
	if res.Err != nil {
		d.Column = res.Err.Column
		d.Message = res.Err.Message
	}

	return d
}

// String renders the three-line report:
//
//	BAD <path>:<line>:<column> -> <message>
//	<candidate text>
//	<spaces>^
//
// The message is cut to its first line so output stays greppable.
func (d Diagnostic) String() string {
	col := max(d.Column, 1)
	caret := strings.Repeat(" ", col-1) + "^"

	return fmt.Sprintf("BAD %s:%d:%d -> %s\n%s\n%s", d.Path, d.Line, col, firstLine(d.Message), d.Text, caret)
}

// WriteDiagnostics writes each diagnostic followed by a newline.
func WriteDiagnostics(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		_, _ = fmt.Fprintln(w, d.String())
	}
}
