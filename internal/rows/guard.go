package rows

import (
	"strings"

	"github.com/calvinalkan/contentfix/internal/fixer"
)

// GuardResult is the outcome of running the fixer chain over one file.
type GuardResult struct {
	// Output is the file with every repairable row repaired. Rows that could
	// not be repaired keep their original text.
	Output []byte
	// Changed is true when Output differs from the input.
	Changed bool
	// Repaired counts rows the chain fixed.
	Repaired int
	// Rows counts non-blank rows.
	Rows int
	// Diagnostics lists rows the chain could not repair, in line order.
	Diagnostics []fixer.Diagnostic
}

// Clean reports whether every row parses after repair.
func (g GuardResult) Clean() bool {
	return len(g.Diagnostics) == 0
}

// ShouldWrite applies the all-or-nothing policy: a file is rewritten only when
// something changed and every row parses.
func (g GuardResult) ShouldWrite() bool {
	return g.Changed && g.Clean()
}

// Guard runs chain over every non-blank row of data. path is only used to
// label diagnostics. A byte-order mark at the start of the file is dropped.
func Guard(path string, data []byte, chain *fixer.Chain) GuardResult {
	rs := Split(data)

	var res GuardResult

	if len(rs) > 0 && strings.HasPrefix(rs[0].Text, BOM) {
		rs[0].Text = strings.TrimPrefix(rs[0].Text, BOM)
		res.Changed = true
	}

	for i := range rs {
		if rs[i].Blank() {
			continue
		}

		res.Rows++

		rep := chain.Repair(rs[i].Text)
		if !rep.OK {
			res.Diagnostics = append(res.Diagnostics, fixer.NewDiagnostic(path, rs[i].Line, rep))

			continue
		}

		if rep.Text != rs[i].Text {
			rs[i].Text = rep.Text
			res.Repaired++
			res.Changed = true
		}
	}

	res.Output = Join(rs)

	return res
}
