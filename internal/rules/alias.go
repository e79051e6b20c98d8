package rules

import "strings"

// MapToken maps a legacy or misspelled target to an allowed token.
//
// The lowercased token is returned as-is when allowed; otherwise the alias
// table is consulted, then the ordered heuristics, then the fallback. The
// result is always an allowed token when the rules define a fallback.
func (r *Rules) MapToken(tok string) string {
	t := strings.ToLower(strings.TrimSpace(tok))

	if r.IsToken(t) {
		return t
	}

	if mapped, ok := r.Aliases[t]; ok {
		return mapped
	}

	for _, h := range r.AliasHeuristics {
		if h.matches(t) {
			return h.Token
		}
	}

	if r.AliasFallback != "" {
		return r.AliasFallback
	}

	return t
}

func (h Heuristic) matches(t string) bool {
	if h.Prefix != "" && !strings.HasPrefix(t, h.Prefix) {
		return false
	}

	for _, c := range h.Contains {
		if !strings.Contains(t, c) {
			return false
		}
	}

	for _, x := range h.Excludes {
		if strings.Contains(t, x) {
			return false
		}
	}

	return true
}

// ApplyReplacers runs every spelling replacer over s in order.
func (r *Rules) ApplyReplacers(s string) string {
	for _, rep := range r.Replacers {
		if rep.re == nil {
			continue
		}

		s = rep.re.ReplaceAllLiteralString(s, rep.Replace)
	}

	return s
}
