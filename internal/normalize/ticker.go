package normalize

import (
	"regexp"
	"strings"
)

var tickerRe = regexp.MustCompile(`^[A-Z]{1,6}(\.[A-Z]{1,2})?$`)

// NormalizeTicker upper-cases and trims a raw ticker string. Empty
// tickers mean "cash-equivalent" and are dropped from signal paths by
// the caller; IsValidTicker is the companion check for I1 (ticker
// sanity) callers should apply before admitting a record downstream.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidTicker reports whether s is a non-empty, non-"--" ticker that
// is either 1-6 alphabetic characters or carries exactly one dot-suffix
// for a multi-class share (e.g. "BRK.B").
func IsValidTicker(s string) bool {
	if s == "" || s == "--" {
		return false
	}
	return tickerRe.MatchString(s)
}
