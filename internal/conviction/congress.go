package conviction

import (
	"fmt"
	"math"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
)

const (
	congressHalfLifeDays = 14
	congressCapDays      = 60
)

// amountScore maps a disclosed trade's midpoint dollar amount to a base
// conviction before recency decay. Congressional disclosures are
// bucketed, not exact, so the tiers mirror the STOCK Act range labels.
func amountScore(amount float64) float64 {
	switch {
	case amount >= 5_000_000:
		return 85
	case amount >= 1_000_000:
		return 70
	case amount >= 500_000:
		return 55
	case amount >= 250_000:
		return 45
	case amount >= 100_000:
		return 35
	case amount >= 50_000:
		return 25
	case amount >= 15_000:
		return 15
	default:
		return 10
	}
}

// Congress scores every disclosed trade reported for one ticker into a
// single RawSignal: the largest disclosed amount sets the base tier, the
// best excess return across trades earns a bonus, and multiple distinct
// members disclosing the same ticker earns another. Direction follows
// whichever trade is most recent.
func Congress(trades []domain.LegislatorTrade, asOf time.Time) (domain.RawSignal, bool) {
	if len(trades) == 0 {
		return domain.RawSignal{}, false
	}

	maxAmount := 0.0
	maxExcessReturn := 0.0
	members := make(map[string]bool)
	latestDate := ""
	latestTradeType := trades[0].TradeType

	for _, t := range trades {
		amount := normalize.ParseAmount("", t.AmountMin, t.AmountMax)
		if amount > maxAmount {
			maxAmount = amount
		}
		if t.ExcessReturnPct > maxExcessReturn {
			maxExcessReturn = t.ExcessReturnPct
		}
		members[t.Politician] = true
		if t.TransactionDate > latestDate {
			latestDate = t.TransactionDate
			latestTradeType = t.TradeType
		}
	}

	excessBonus := 0.0
	if maxExcessReturn > 0 {
		excessBonus = math.Min(maxExcessReturn*1.5, 15)
	}
	memberBonus := math.Min(float64(len(members)-1)*10, 20)

	age := daysAgo(latestDate, asOf)
	decay := recencyDecay(age, congressHalfLifeDays, congressCapDays)

	direction := domain.DirectionBullish
	if latestTradeType == domain.TradeSell {
		direction = domain.DirectionBearish
	}

	return domain.RawSignal{
		Ticker:      trades[0].Ticker,
		Source:      domain.SourceCongress,
		Direction:   direction,
		Date:        latestDate,
		Conviction:  clamp(amountScore(maxAmount)*decay+excessBonus+memberBonus, 0, 100),
		Description: fmt.Sprintf("%d member(s) disclosed trades", len(members)),
	}, true
}
