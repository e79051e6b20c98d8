package dispatcher

import (
	"strings"
)

// Document is a parsed dispatcher file.
type Document struct {
	// Preamble holds the lines before the first module_id header, cleaned,
	// with leading and trailing blank lines dropped.
	Preamble []string
	Records  []Record

	preambleSource []string
}

// section is the parser state: which part of a record the next line belongs to.
type section int

const (
	sectionNone section = iota
	sectionScope
	sectionSpotkinds
	sectionTargets
)

// Parse splits text into records. Text without any module_id header yields a
// document with no records.
//
// Transitions: a module_id header starts a record in sectionNone;
// short_scope moves to sectionScope; the allowlist headers move to their
// list section. In a list section every other non-blank line is an item. In
// sectionNone and sectionScope other lines are kept as Extra, as is a second
// short_scope line. Blank lines never change state.
func Parse(text string) Document {
	lines := splitLines(text)

	var (
		doc       Document
		cur       *Record
		state     = sectionNone
		scopeSeen bool
	)

	flush := func() {
		if cur != nil {
			doc.Records = append(doc.Records, *cur)
			cur = nil
		}
	}

	for i, raw := range lines {
		line := cleanLine(raw)
		trimmed := strings.TrimSpace(line)

		if cur == nil && !strings.HasPrefix(trimmed, HeaderModuleID) {
			doc.Preamble = append(doc.Preamble, line)
			doc.preambleSource = append(doc.preambleSource, raw)

			continue
		}

		if strings.HasPrefix(trimmed, HeaderModuleID) {
			flush()

			cur = &Record{
				ModuleID:  headerValue(trimmed, HeaderModuleID),
				StartLine: i + 1,
			}
			state = sectionNone
			scopeSeen = false
		}

		cur.Source = append(cur.Source, raw)

		switch {
		case trimmed == "":
			// Blank lines never carry data.
		case strings.HasPrefix(trimmed, HeaderModuleID):
			// Handled above.
		case strings.HasPrefix(trimmed, HeaderShortScope):
			state = sectionScope

			if scopeSeen {
				cur.Extra = append(cur.Extra, line)
			} else {
				cur.ShortScope = headerValue(trimmed, HeaderShortScope)
				scopeSeen = true
			}
		case strings.HasPrefix(trimmed, HeaderSpotkinds):
			state = sectionSpotkinds
			cur.Spotkinds = appendItem(cur.Spotkinds, headerValue(trimmed, HeaderSpotkinds))
		case strings.HasPrefix(trimmed, HeaderTargets):
			state = sectionTargets
			cur.Targets = appendItem(cur.Targets, headerValue(trimmed, HeaderTargets))
		case state == sectionSpotkinds:
			cur.Spotkinds = appendItem(cur.Spotkinds, trimmed)
		case state == sectionTargets:
			cur.Targets = appendItem(cur.Targets, trimmed)
		default:
			cur.Extra = append(cur.Extra, line)
		}
	}

	flush()

	doc.Preamble = trimBlankEdges(doc.Preamble)

	return doc
}

// Index maps module ids to their first record.
func (d Document) Index() map[string]Record {
	idx := make(map[string]Record, len(d.Records))

	for _, rec := range d.Records {
		if _, ok := idx[rec.ModuleID]; !ok {
			idx[rec.ModuleID] = rec
		}
	}

	return idx
}

// appendItem appends item unless it is empty or equal to the last item.
func appendItem(items []string, item string) []string {
	if item == "" {
		return items
	}

	if len(items) > 0 && items[len(items)-1] == item {
		return items
	}

	return append(items, item)
}

func headerValue(line, header string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, header))
}

// cleanLine expands tabs and drops trailing whitespace.
func cleanLine(s string) string {
	return strings.TrimRight(strings.ReplaceAll(s, "\t", "    "), " ")
}

// splitLines splits on LF, strips a CR before each LF, and drops the empty
// element after a final terminator.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

func trimBlankEdges(lines []string) []string {
	start, end := 0, len(lines)

	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}

	if start == end {
		return nil
	}

	return lines[start:end]
}
