package conviction

import (
	"fmt"
	"strings"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
)

const (
	insiderHalfLifeDays = 14
	insiderCapDays      = 45
	insiderMinValue     = 10_000.0
)

var highTitleKeywords = []string{"ceo", "chief executive", "cfo", "chief financial", "coo", "chief operating", "cto", "chief technology", "president", "chairman", "chief"}
var midTitleKeywords = []string{"vp", "vice president", "director", "svp"}

func insiderTitleBonus(title string) float64 {
	lower := strings.ToLower(title)
	for _, k := range highTitleKeywords {
		if strings.Contains(lower, k) {
			return 10
		}
	}
	for _, k := range midTitleKeywords {
		if strings.Contains(lower, k) {
			return 5
		}
	}
	return 0
}

func insiderValueTier(value float64) float64 {
	switch {
	case value >= 5_000_000:
		return 80
	case value >= 1_000_000:
		return 65
	case value >= 500_000:
		return 50
	case value >= 100_000:
		return 30
	case value >= 50_000:
		return 15
	default:
		return 10
	}
}

func insiderClusterBonus(distinctInsiders int) float64 {
	switch {
	case distinctInsiders >= 5:
		return 25
	case distinctInsiders == 4:
		return 20
	case distinctInsiders >= 3:
		return 15
	default:
		return 0
	}
}

// Insider scores every qualifying Form 4 purchase reported for one
// ticker into a single RawSignal: the largest purchase sets the base
// tier, the most senior title among the buyers earns a bonus, and
// multiple distinct insiders buying together earns a cluster bonus.
// Sales and purchases below the minimum dollar value are excluded --
// sales carry no conviction and small purchases are often option
// exercises or tax-driven.
func Insider(trades []domain.InsiderTrade, asOf time.Time) (domain.RawSignal, bool) {
	var qualifying []domain.InsiderTrade
	for _, t := range trades {
		if t.TransactionType == domain.TradeBuy && t.Value >= insiderMinValue {
			qualifying = append(qualifying, t)
		}
	}
	if len(qualifying) == 0 {
		return domain.RawSignal{}, false
	}

	maxValue := 0.0
	bestTitleBonus := 0.0
	insiders := make(map[string]bool)
	latestDate := ""

	for _, t := range qualifying {
		if t.Value > maxValue {
			maxValue = t.Value
		}
		if b := insiderTitleBonus(t.Title); b > bestTitleBonus {
			bestTitleBonus = b
		}
		insiders[t.InsiderName] = true
		if t.TradeDate > latestDate {
			latestDate = t.TradeDate
		}
	}

	age := daysAgo(latestDate, asOf)
	decay := recencyDecay(age, insiderHalfLifeDays, insiderCapDays)

	return domain.RawSignal{
		Ticker:      qualifying[0].Ticker,
		Source:      domain.SourceInsider,
		Direction:   domain.DirectionBullish,
		Date:        latestDate,
		Conviction:  clamp(insiderValueTier(maxValue)*decay+insiderClusterBonus(len(insiders))+bestTitleBonus, 0, 100),
		Description: fmt.Sprintf("%d insider(s) buying", len(insiders)),
	}, true
}
