// Package migrate rewrites legacy drill and demo targets to allowed tokens.
//
// Rows are patched in place with hujson so key order, spacing and every
// untouched row stay byte for byte as they were.
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/contentfix/internal/rows"
	"github.com/calvinalkan/contentfix/internal/rules"
)

var errNotObject = errors.New("row is not an object")

// Skip is a row left alone because it does not parse.
type Skip struct {
	Line    int
	Message string
}

// Result is the outcome of migrating one file.
type Result struct {
	Output  []byte
	Changed bool
	// Targets counts rows whose target was remapped.
	Targets int
	// SpotKinds counts rows that received the default spot kind.
	SpotKinds int
	Skipped   []Skip
}

// File migrates every row of data. Each row with a target gets it mapped
// through the alias table; a row without a spot_kind gets the default.
// Malformed rows are kept verbatim and reported in Skipped.
func File(r *rules.Rules, data []byte) (Result, error) {
	var res Result

	rs := rows.Parse(data)

	for i := range rs {
		row := &rs[i]
		if row.Blank() {
			continue
		}

		if row.Err != nil {
			res.Skipped = append(res.Skipped, Skip{Line: row.Line, Message: row.Err.Message})

			continue
		}

		var lead string

		body := row.Text
		if i == 0 {
			if rest, ok := strings.CutPrefix(body, rows.BOM); ok {
				lead, body = rows.BOM, rest
			}
		}

		text, target, spot, err := patchRow(r, body, row.Object)
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", row.Line, err)
		}

		text = lead + text

		if target {
			res.Targets++
		}

		if spot {
			res.SpotKinds++
		}

		if text != row.Text {
			row.Text = text
			res.Changed = true
		}
	}

	res.Output = rows.Join(rs)

	return res, nil
}

func patchRow(r *rules.Rules, text string, obj map[string]any) (string, bool, bool, error) {
	var targetChanged, spotAdded bool

	old, hasTarget := obj["target"].(string)
	_, hasSpot := obj["spot_kind"]

	mapped := r.MapToken(old)
	if hasTarget && mapped != old {
		targetChanged = true
	}

	if !hasSpot {
		spotAdded = true
	}

	if !targetChanged && !spotAdded {
		return text, false, false, nil
	}

	v, err := hujson.Parse([]byte(text))
	if err != nil {
		return "", false, false, fmt.Errorf("reparse row: %w", err)
	}

	o, ok := v.Value.(*hujson.Object)
	if !ok {
		return "", false, false, errNotObject
	}

	if targetChanged {
		for i := range o.Members {
			if memberName(o.Members[i]) == "target" {
				o.Members[i].Value.Value = hujson.String(mapped)
			}
		}
	}

	if spotAdded {
		o.Members = append(o.Members, hujson.ObjectMember{
			Name:  hujson.Value{BeforeExtra: nameSpace(o), Value: hujson.String("spot_kind")},
			Value: hujson.Value{BeforeExtra: valueSpace(o), Value: hujson.String(r.Dispatcher.SpotkindDefault)},
		})
	}

	return string(v.Pack()), targetChanged, spotAdded, nil
}

func memberName(m hujson.ObjectMember) string {
	lit, ok := m.Name.Value.(hujson.Literal)
	if !ok {
		return ""
	}

	var s string
	if json.Unmarshal(lit, &s) != nil {
		return ""
	}

	return s
}

// nameSpace copies the spacing before the second member's name so an
// appended member follows the row's style. A single-member row gets one space.
func nameSpace(o *hujson.Object) hujson.Extra {
	switch len(o.Members) {
	case 0:
		return nil
	case 1:
		return hujson.Extra(" ")
	default:
		return append(hujson.Extra(nil), o.Members[1].Name.BeforeExtra...)
	}
}

// valueSpace copies the spacing after the first member's colon.
func valueSpace(o *hujson.Object) hujson.Extra {
	if len(o.Members) == 0 {
		return hujson.Extra(" ")
	}

	return append(hujson.Extra(nil), o.Members[0].Value.BeforeExtra...)
}
