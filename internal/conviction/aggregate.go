package conviction

import (
	"sort"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
)

// recencyFactorHalfLife and recencyFactorCapDays describe the
// aggregate-level freshness indicator carried on SmartMoneySignal,
// independent of any one source's own half-life/cap.
const (
	recencyFactorHalfLife = 14
	recencyFactorCapDays  = 365 * 50
)

// sourceCap limits how close to 100 a ticker can score based on how
// many distinct sources corroborate it: a single-source signal, however
// strong, should not outrank a multi-source confluence.
var sourceCap = map[int]float64{
	1: 0.75,
	2: 0.85,
	3: 0.90,
}

func capForSourceCount(n int) float64 {
	if n >= 4 {
		return 1.0
	}
	if cap, ok := sourceCap[n]; ok {
		return cap
	}
	return 1.0
}

// Aggregate combines every raw signal for one ticker into a single V2
// SmartMoneySignal: the strongest reading per source, a bonus for
// corroboration across sources, and a cap scaled by source count.
func Aggregate(ticker, company string, signals []domain.RawSignal) domain.SmartMoneySignal {
	bySource := make(map[string]domain.RawSignal)
	for _, sig := range signals {
		existing, ok := bySource[sig.Source]
		if !ok || sig.Conviction > existing.Conviction {
			bySource[sig.Source] = sig
		}
	}

	sourceNames := make([]string, 0, len(bySource))
	for src := range bySource {
		sourceNames = append(sourceNames, src)
	}
	sort.Strings(sourceNames)

	maxConviction := 0.0
	latestDate := ""
	for _, src := range sourceNames {
		sig := bySource[src]
		if sig.Conviction > maxConviction {
			maxConviction = sig.Conviction
		}
		if sig.Date > latestDate {
			latestDate = sig.Date
		}
	}

	n := len(sourceNames)
	multiSourceBonus := 0.0
	if n > 1 {
		multiSourceBonus = float64(n-1) * 20
		if multiSourceBonus > 40 {
			multiSourceBonus = 40
		}
	}

	cap := capForSourceCount(n)
	score := maxConviction*cap + multiSourceBonus
	if score > 100 {
		score = 100
	}

	details := make([]domain.SignalDetail, 0, n)
	for _, src := range sourceNames {
		sig := bySource[src]
		details = append(details, domain.SignalDetail{
			Ticker:      sig.Ticker,
			Source:      sig.Source,
			Direction:   sig.Direction,
			Date:        sig.Date,
			Conviction:  sig.Conviction,
			Description: sig.Description,
		})
	}

	recencyFactor := recencyDecay(daysAgo(latestDate, time.Now().UTC()), recencyFactorHalfLife, recencyFactorCapDays)

	return domain.SmartMoneySignal{
		Ticker:           ticker,
		Company:          company,
		Score:            score,
		MaxConviction:    maxConviction,
		SourceCount:      n,
		MultiSourceBonus: multiSourceBonus,
		SourceCap:        cap,
		SignalDate:       latestDate,
		RecencyFactor:    recencyFactor,
		Sources:          sourceNames,
		SignalsBySource:  bySource,
		Details:          details,
	}
}
