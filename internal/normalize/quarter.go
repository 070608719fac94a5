package normalize

import (
	"fmt"
	"time"
)

// FilingDateToQuarter derives the 13F reporting quarter from a filing
// date. A 13F is filed at least 45 days after quarter close, so a filing
// in Jan-Mar reports on the prior year's Q4, Apr-Jun reports Q1 of the
// same year, and so on. Malformed input yields "Q0_0000".
func FilingDateToQuarter(filingDate string) string {
	t, err := time.Parse("2006-01-02", filingDate)
	if err != nil {
		return "Q0_0000"
	}

	year := t.Year()
	month := int(t.Month())

	switch {
	case month >= 1 && month <= 3:
		return fmt.Sprintf("Q4_%d", year-1)
	case month >= 4 && month <= 6:
		return fmt.Sprintf("Q1_%d", year)
	case month >= 7 && month <= 9:
		return fmt.Sprintf("Q2_%d", year)
	default:
		return fmt.Sprintf("Q3_%d", year)
	}
}
