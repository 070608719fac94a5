package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	rangeRe = regexp.MustCompile(`\$\s*([\d,]+)\s*-\s*\$\s*([\d,]+)`)
	overRe  = regexp.MustCompile(`(?i)over\s*\$\s*([\d,]+)`)
)

// ParseAmountRange parses a disclosed amount-range string such as
// "$1,001 - $15,000" into (lo, hi) floats. "Over $X" becomes (X, X).
// Empty or unparseable input returns (0, 0).
func ParseAmountRange(s string) (float64, float64) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}

	if m := rangeRe.FindStringSubmatch(s); m != nil {
		lo := parseNumber(m[1])
		hi := parseNumber(m[2])
		return lo, hi
	}

	if m := overRe.FindStringSubmatch(s); m != nil {
		v := parseNumber(m[1])
		return v, v
	}

	return 0, 0
}

// parseNumber parses a comma-formatted dollar figure through
// shopspring/decimal rather than strconv, so a malformed disclosure
// string can never silently round through float parsing before the
// pipeline's own scoring does its own (deliberately float64) math.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	v, _ := d.Float64()
	return v
}

// namedRangeMidpoints is the fixed mid-point table used by ParseAmount
// when amount_max is unavailable (congress disclosure brackets).
var namedRangeMidpoints = map[string]float64{
	"$1,001 - $15,000":          8000,
	"$1,001 - $15,000 ":         8000,
	"$15,001 - $50,000":         32500,
	"$50,001 - $100,000":        75000,
	"$100,001 - $250,000":       175000,
	"$250,001 - $500,000":       375000,
	"$500,001 - $1,000,000":     750000,
	"$1,000,001 - $5,000,000":   3000000,
	"$5,000,001 - $25,000,000":  15000000,
	"$25,000,001 - $50,000,000": 37500000,
	"Over $50,000,000":          75000000,
}

// ParseAmount resolves a disclosed trade's dollar amount for conviction
// scoring. When both ends of the bracket are known it returns their
// midpoint via decimal arithmetic, to avoid the float drift that
// summing two large float64 values and halving can introduce. It falls
// back to the named-range mid-point table, then to parsing the range
// string directly, when amountMax is not yet known.
func ParseAmount(rangeString string, amountMin, amountMax float64) float64 {
	if amountMax > 0 {
		min := decimal.NewFromFloat(amountMin)
		max := decimal.NewFromFloat(amountMax)
		mid, _ := min.Add(max).Div(decimal.NewFromInt(2)).Float64()
		return mid
	}
	if mid, ok := namedRangeMidpoints[strings.TrimSpace(rangeString)]; ok {
		return mid
	}
	_, hi := ParseAmountRange(rangeString)
	return hi
}
