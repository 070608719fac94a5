// Package darkpool computes rolling Z-scores over a ticker's dark-pool
// index history and flags statistically abnormal days.
package darkpool

import (
	"time"

	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/pkg/formulas"
)

const (
	// minHistoryDays is the shortest history the detector will score;
	// shorter series produce a mean/stdev too noisy to trust.
	minHistoryDays = 20

	// zScoreWindow bounds how much trailing history feeds the baseline,
	// so the mean tracks a ticker's recent liquidity regime rather than
	// its entire lifetime.
	zScoreWindow = 30

	minStdDev       = 0.001
	anomalyZ        = 2.0
	anomalyDPI      = 0.4
	anomalyVolume   = 500000.0
	anomalyMaxAgeHr = 7 * 24 * time.Hour
)

// Detect computes a DarkPoolEntry for the most recent observation in a
// ticker's chronologically ascending history. It returns false when the
// history is too short to score.
func Detect(history []domain.DarkPoolRecord, asOf time.Time) (domain.DarkPoolEntry, bool) {
	if len(history) < minHistoryDays {
		return domain.DarkPoolEntry{}, false
	}

	current := history[len(history)-1]
	window := baselineWindow(history)

	dpis := make([]float64, len(window))
	for i, r := range window {
		dpis[i] = r.DPI
	}

	mean := formulas.Mean(dpis)
	stdDev := formulas.StdDev(dpis)
	if stdDev < minStdDev {
		stdDev = minStdDev
	}

	z := (current.DPI - mean) / stdDev

	entry := domain.DarkPoolEntry{
		Ticker:      current.Ticker,
		Date:        current.Date,
		DPI:         current.DPI,
		ZScore:      z,
		TotalVolume: current.TotalVolume,
		IsAnomaly:   isAnomaly(z, current, asOf),
	}
	return entry, true
}

// baselineWindow returns the trailing window the current observation is
// compared against, excluding the current observation itself: the last
// 30 days before today if that many exist, else everything before today.
func baselineWindow(history []domain.DarkPoolRecord) []domain.DarkPoolRecord {
	priorAll := history[:len(history)-1]
	if len(history) >= zScoreWindow+1 {
		return priorAll[len(priorAll)-zScoreWindow:]
	}
	return priorAll
}

func isAnomaly(z float64, current domain.DarkPoolRecord, asOf time.Time) bool {
	if z < anomalyZ || current.DPI < anomalyDPI || current.TotalVolume < anomalyVolume {
		return false
	}
	d, err := time.Parse("2006-01-02", current.Date)
	if err != nil {
		return false
	}
	return asOf.Sub(d) <= anomalyMaxAgeHr
}

// DetectAll runs Detect for every ticker's history, keyed by ticker.
func DetectAll(byTicker map[string][]domain.DarkPoolRecord, asOf time.Time) []domain.DarkPoolEntry {
	var out []domain.DarkPoolEntry
	for _, history := range byTicker {
		sorted := sortedByDate(history)
		entry, ok := Detect(sorted, asOf)
		if !ok {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func sortedByDate(records []domain.DarkPoolRecord) []domain.DarkPoolRecord {
	out := make([]domain.DarkPoolRecord, len(records))
	copy(out, records)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Date > out[j].Date; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
