// Package validate checks content files against the rule tables.
//
// Findings are [Issue] values with a [Severity]. Only errors fail a run;
// warnings are advisory.
package validate

import (
	"fmt"
	"io"
	"strconv"
)

// Severity classifies an issue.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "ERR"
	}

	return "WARN"
}

// Issue is one finding. Line is 0 for file-level findings.
type Issue struct {
	Severity Severity
	Path     string
	Line     int
	Message  string
}

// Where renders "path" or "path:line".
func (i Issue) Where() string {
	if i.Line > 0 {
		return i.Path + ":" + strconv.Itoa(i.Line)
	}

	return i.Path
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s :: %s", i.Severity, i.Where(), i.Message)
}

// Report collects issues in discovery order.
type Report struct {
	Issues []Issue
}

// Add appends issues.
func (r *Report) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Errors counts error issues.
func (r *Report) Errors() int {
	return r.count(Error)
}

// Warnings counts warning issues.
func (r *Report) Warnings() int {
	return r.count(Warning)
}

func (r *Report) count(s Severity) int {
	n := 0

	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}

	return n
}

// Failed reports whether any error was found. Warnings never fail a run.
func (r *Report) Failed() bool {
	return r.Errors() > 0
}

// Write prints one line per issue, a blank line and the summary.
func (r *Report) Write(w io.Writer) error {
	for _, i := range r.Issues {
		if _, err := fmt.Fprintln(w, i.String()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\nSummary: %d errors, %d warnings\n", r.Errors(), r.Warnings())

	return err
}
