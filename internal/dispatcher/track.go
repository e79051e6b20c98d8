package dispatcher

import "slices"

// Change describes how one record's canonical rendering differs from its source.
type Change struct {
	ModuleID     string
	Changed      bool
	LinesChanged int
}

// Changes aggregates per-record changes.
type Changes struct {
	// Records holds one entry per tracked record, in order.
	Records []Change
	// LinesChanged is the total positional line difference, preamble included.
	LinesChanged int
}

// ChangedIDs returns the ids of changed records in first-seen order without duplicates.
func (c Changes) ChangedIDs() []string {
	seen := make(map[string]bool)

	var ids []string

	for _, r := range c.Records {
		if r.Changed && !seen[r.ModuleID] {
			seen[r.ModuleID] = true
			ids = append(ids, r.ModuleID)
		}
	}

	return ids
}

// Touched is the number of distinct changed modules.
func (c Changes) Touched() int {
	return len(c.ChangedIDs())
}

// Track compares every record's canonical rendering with its source span.
// Source lines are compared after CR stripping only, so trailing spaces,
// tabs and separator blank lines mark a record as changed.
func Track(doc Document, d Defaults, style Style) Changes {
	var c Changes

	c.LinesChanged += countChanged(doc.preambleSource, PreambleLines(doc.Preamble, style))

	for _, rec := range doc.Records {
		rendered := RecordLines(rec, d, style)

		c.Records = append(c.Records, Change{
			ModuleID:     rec.ModuleID,
			Changed:      !slices.Equal(rec.Source, rendered),
			LinesChanged: countChanged(rec.Source, rendered),
		})
		c.LinesChanged += c.Records[len(c.Records)-1].LinesChanged
	}

	return c
}

// countChanged compares two line sequences position by position. Every
// line past the end of the shorter sequence counts as changed, blank or not.
func countChanged(before, after []string) int {
	shorter := min(len(before), len(after))

	changed := max(len(before), len(after)) - shorter

	for i := range shorter {
		if before[i] != after[i] {
			changed++
		}
	}

	return changed
}
