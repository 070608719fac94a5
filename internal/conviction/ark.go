package conviction

import (
	"fmt"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
)

const (
	arkHalfLifeDays = 14
	arkCapDays      = 30
)

// fundScore rewards a ticker bought by more distinct ARK funds on the
// same day -- a cross-fund buy is a firm-wide conviction, not one
// manager's call.
func fundScore(distinctFunds int) float64 {
	switch {
	case distinctFunds >= 5:
		return 85
	case distinctFunds == 4:
		return 75
	case distinctFunds == 3:
		return 60
	case distinctFunds == 2:
		return 40
	default:
		return 20
	}
}

// Ark scores every ARK buy trade reported for one ticker into a single
// RawSignal. Sells are portfolio hygiene and carry no conviction; only
// buy trades are considered.
func Ark(trades []domain.ArkTrade, asOf time.Time) (domain.RawSignal, bool) {
	var buys []domain.ArkTrade
	for _, t := range trades {
		if t.TradeType == domain.TradeBuy {
			buys = append(buys, t)
		}
	}
	if len(buys) == 0 {
		return domain.RawSignal{}, false
	}

	funds := make(map[string]bool)
	hasNewPosition := false
	maxWeight := 0.0
	latestDate := ""

	for _, t := range buys {
		funds[t.ETF] = true
		if t.ChangeType == domain.ChangeNewPosition {
			hasNewPosition = true
		}
		if t.WeightPct > maxWeight {
			maxWeight = t.WeightPct
		}
		if t.Date > latestDate {
			latestDate = t.Date
		}
	}

	typeBonus := 5.0
	if hasNewPosition {
		typeBonus = 15.0
	}
	weightBonus := 0.0
	switch {
	case maxWeight > 5:
		weightBonus = 10
	case maxWeight > 2:
		weightBonus = 5
	}

	age := daysAgo(latestDate, asOf)
	decay := recencyDecay(age, arkHalfLifeDays, arkCapDays)

	return domain.RawSignal{
		Ticker:      buys[0].Ticker,
		Source:      domain.SourceArk,
		Direction:   domain.DirectionBullish,
		Date:        latestDate,
		Conviction:  clamp(fundScore(len(funds))*decay+typeBonus+weightBonus, 0, 100),
		Description: fmt.Sprintf("%d ARK fund(s) buying", len(funds)),
	}, true
}
