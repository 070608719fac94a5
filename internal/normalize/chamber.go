package normalize

import "strings"

// NormalizeChamber substring-matches "house"/"senate" case-insensitively;
// anything else passes through trimmed.
func NormalizeChamber(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "house"):
		return "House"
	case strings.Contains(lower, "senate"):
		return "Senate"
	default:
		return s
	}
}
