package dispatcher

import (
	"regexp"
	"slices"
	"strings"

	"github.com/calvinalkan/contentfix/internal/rules"
)

var quotedID = regexp.MustCompile(`['"]([a-z0-9_]+)['"]`)

// ParseSSOT extracts the canonical module ids from the source-of-truth file:
// every quoted lowercase identifier that starts with one of the configured
// prefixes or is listed as an extra. Ids keep their first-seen order.
func ParseSSOT(text string, cfg rules.SSOT) []string {
	var ids []string

	seen := make(map[string]bool)

	for _, m := range quotedID.FindAllStringSubmatch(text, -1) {
		id := m[1]
		if seen[id] || !isModuleID(id, cfg) {
			continue
		}

		seen[id] = true
		ids = append(ids, id)
	}

	return ids
}

func isModuleID(id string, cfg rules.SSOT) bool {
	for _, p := range cfg.IDPrefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}

	return slices.Contains(cfg.IDExtras, id)
}
