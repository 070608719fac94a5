package conviction

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
)

const (
	institutionHalfLifeDays = 30
	institutionCapDays      = 120
	institutionMinValue     = 50_000_000.0
)

// prestigeFunds receive a conviction bonus: a position from one of these
// names has historically preceded outsized moves more often than a
// generic institutional filing.
var prestigeFunds = map[string]bool{
	"berkshire":   true,
	"citadel":     true,
	"renaissance": true,
	"bridgewater": true,
	"two sigma":   true,
	"de shaw":     true,
	"millennium":  true,
	"point72":     true,
	"soros":       true,
}

func isPrestigeFund(fundName string) bool {
	lower := strings.ToLower(fundName)
	for name := range prestigeFunds {
		if strings.Contains(lower, name) {
			return true
		}
	}
	return false
}

func institutionValueTier(value float64) float64 {
	switch {
	case value >= 1_000_000_000:
		return 75
	case value >= 500_000_000:
		return 55
	case value >= 100_000_000:
		return 35
	default:
		return 20
	}
}

// InstitutionEvent is one fund's 13F line item for a ticker, used to
// aggregate every fund holding a ticker into one conviction read.
type InstitutionEvent struct {
	FundName   string
	Holding    domain.InstitutionHolding
	FilingDate string
}

// Institution scores every qualifying 13F holding reported for one
// ticker across funds into a single RawSignal: the largest position
// sets the base tier, a bonus applies when any holder is a prestige
// fund, and another when multiple distinct funds hold the position.
// Holdings below the minimum dollar threshold are excluded as noise
// relative to most funds' AUM.
func Institution(events []InstitutionEvent, asOf time.Time) (domain.RawSignal, bool) {
	var qualifying []InstitutionEvent
	for _, e := range events {
		if e.Holding.Value >= institutionMinValue {
			qualifying = append(qualifying, e)
		}
	}
	if len(qualifying) == 0 {
		return domain.RawSignal{}, false
	}

	maxValue := 0.0
	prestige := false
	funds := make(map[string]bool)
	latestDate := ""
	ticker := qualifying[0].Holding.Ticker

	for _, e := range qualifying {
		if e.Holding.Value > maxValue {
			maxValue = e.Holding.Value
		}
		if isPrestigeFund(e.FundName) {
			prestige = true
		}
		funds[e.FundName] = true
		if e.FilingDate > latestDate {
			latestDate = e.FilingDate
		}
	}

	prestigeBonus := 0.0
	if prestige {
		prestigeBonus = 15
	}
	fundBonus := math.Min(float64(len(funds)-1)*10, 20)

	age := daysAgo(latestDate, asOf)
	decay := recencyDecay(age, institutionHalfLifeDays, institutionCapDays)

	return domain.RawSignal{
		Ticker:      ticker,
		Source:      domain.SourceInstitution,
		Direction:   "",
		Date:        latestDate,
		Conviction:  clamp(institutionValueTier(maxValue)*decay+prestigeBonus+fundBonus, 0, 100),
		Description: fmt.Sprintf("%d institution(s) holding", len(funds)),
	}, true
}
