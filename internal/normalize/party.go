package normalize

import "strings"

// NormalizeParty maps single-letter and already-spelled-out party codes
// to the canonical full name, trimming whitespace. Unrecognized values
// pass through unchanged (after trimming) so upstream typos are visible
// rather than silently discarded.
func NormalizeParty(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "D", "DEMOCRAT", "DEMOCRATIC":
		return "Democrat"
	case "R", "REPUBLICAN":
		return "Republican"
	case "I", "INDEPENDENT":
		return "Independent"
	default:
		return s
	}
}
