// Package v1check implements the legacy 0-10 confidence formula the
// platform shipped before the V2/V7 engines. It is kept only as a
// backward-compatible regression check: refresh.Pipeline runs it
// alongside V7 and logs a disagreement, it never produces a ranking
// artifact of its own.
package v1check

import (
	"math"
	"time"
)

const (
	weightCongress = 3.5
	weightArk      = 3.0
	weightDarkpool = 3.0
	halfLifeDays   = 19.0
	maxScore       = 10.0
)

// Score is the legacy per-ticker confidence reading.
type Score struct {
	Ticker      string
	Value       float64
	SourceCount int
	Sources     []string
}

func recencyDecay(days float64) float64 {
	if days < 0 {
		days = 0
	}
	return math.Exp(-math.Ln2 * days / halfLifeDays)
}

func daysSince(date string, asOf time.Time) (float64, bool) {
	if date == "" {
		return 0, false
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	return asOf.Sub(t).Hours() / 24, true
}

// ScoreTicker computes score = min(10, sum of per-source weight *
// recency_decay) over whichever of congress/ark/darkpool last reported
// activity for ticker. An empty date means that source never fired.
func ScoreTicker(ticker, congressDate, arkDate, darkpoolDate string, asOf time.Time) Score {
	sum := 0.0
	var sources []string

	if days, ok := daysSince(congressDate, asOf); ok {
		sum += weightCongress * recencyDecay(days)
		sources = append(sources, "congress")
	}
	if days, ok := daysSince(arkDate, asOf); ok {
		sum += weightArk * recencyDecay(days)
		sources = append(sources, "ark")
	}
	if days, ok := daysSince(darkpoolDate, asOf); ok {
		sum += weightDarkpool * recencyDecay(days)
		sources = append(sources, "darkpool")
	}

	if sum > maxScore {
		sum = maxScore
	}

	return Score{Ticker: ticker, Value: sum, SourceCount: len(sources), Sources: sources}
}

// TopPick scores every ticker that appears in at least one of the three
// latest-activity maps and returns the highest scorer, for comparison
// against V7's rank-one ticker. Returns ok=false when none of the maps
// carry any tickers.
func TopPick(congressDates, arkDates, darkpoolDates map[string]string, asOf time.Time) (string, bool) {
	tickers := make(map[string]struct{})
	for t := range congressDates {
		tickers[t] = struct{}{}
	}
	for t := range arkDates {
		tickers[t] = struct{}{}
	}
	for t := range darkpoolDates {
		tickers[t] = struct{}{}
	}

	var best Score
	found := false
	for t := range tickers {
		s := ScoreTicker(t, congressDates[t], arkDates[t], darkpoolDates[t], asOf)
		if !found || s.Value > best.Value {
			best = s
			found = true
		}
	}
	if !found {
		return "", false
	}
	return best.Ticker, true
}
