package conviction

import (
	"testing"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
	"github.com/stretchr/testify/assert"
)

var asOf = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func TestCongressConviction(t *testing.T) {
	trades := []domain.LegislatorTrade{
		{Ticker: "NVDA", Politician: "Jane Doe", TradeType: domain.TradeBuy, TransactionDate: "2026-06-10", AmountMin: 1_000_001, AmountMax: 5_000_000},
	}
	sig, ok := Congress(trades, asOf)
	assert.True(t, ok)
	assert.Equal(t, domain.SourceCongress, sig.Source)
	assert.Equal(t, domain.DirectionBullish, sig.Direction)
	assert.Greater(t, sig.Conviction, 0.0)
	assert.LessOrEqual(t, sig.Conviction, 100.0)
}

func TestCongressSellIsBearish(t *testing.T) {
	trades := []domain.LegislatorTrade{
		{Ticker: "NVDA", TradeType: domain.TradeSell, TransactionDate: "2026-06-10", AmountMin: 50_000, AmountMax: 100_000},
	}
	sig, ok := Congress(trades, asOf)
	assert.True(t, ok)
	assert.Equal(t, domain.DirectionBearish, sig.Direction)
}

func TestCongressMemberBonusRewardsMultipleDisclosures(t *testing.T) {
	one := []domain.LegislatorTrade{
		{Ticker: "NVDA", Politician: "Jane Doe", TradeType: domain.TradeBuy, TransactionDate: "2026-06-10", AmountMin: 100_000, AmountMax: 250_000},
	}
	two := append(one, domain.LegislatorTrade{
		Ticker: "NVDA", Politician: "John Roe", TradeType: domain.TradeBuy, TransactionDate: "2026-06-10", AmountMin: 100_000, AmountMax: 250_000,
	})

	single, _ := Congress(one, asOf)
	multi, _ := Congress(two, asOf)
	assert.Greater(t, multi.Conviction, single.Conviction)
}

func TestArkSellExcluded(t *testing.T) {
	trades := []domain.ArkTrade{{Ticker: "TSLA", TradeType: domain.TradeSell, Date: "2026-06-10"}}
	_, ok := Ark(trades, asOf)
	assert.False(t, ok)
}

func TestArkBuyScored(t *testing.T) {
	trades := []domain.ArkTrade{{Ticker: "TSLA", ETF: "ARKK", TradeType: domain.TradeBuy, WeightPct: 2.0, Date: "2026-06-10"}}
	sig, ok := Ark(trades, asOf)
	assert.True(t, ok)
	assert.Equal(t, domain.DirectionBullish, sig.Direction)
}

func TestArkFundScoreRewardsDistinctFunds(t *testing.T) {
	one := []domain.ArkTrade{{Ticker: "TSLA", ETF: "ARKK", TradeType: domain.TradeBuy, Date: "2026-06-10"}}
	three := []domain.ArkTrade{
		{Ticker: "TSLA", ETF: "ARKK", TradeType: domain.TradeBuy, Date: "2026-06-10"},
		{Ticker: "TSLA", ETF: "ARKW", TradeType: domain.TradeBuy, Date: "2026-06-10"},
		{Ticker: "TSLA", ETF: "ARKQ", TradeType: domain.TradeBuy, Date: "2026-06-10"},
	}

	single, _ := Ark(one, asOf)
	multi, _ := Ark(three, asOf)
	assert.Greater(t, multi.Conviction, single.Conviction)
}

func TestDarkpoolBelowThresholdExcluded(t *testing.T) {
	entry := domain.DarkPoolEntry{Ticker: "AMC", ZScore: 1.5, Date: "2026-06-10"}
	_, ok := Darkpool(entry, asOf)
	assert.False(t, ok)
}

func TestDarkpoolScored(t *testing.T) {
	entry := domain.DarkPoolEntry{Ticker: "AMC", ZScore: 3.2, Date: "2026-06-14"}
	sig, ok := Darkpool(entry, asOf)
	assert.True(t, ok)
	assert.Equal(t, "", sig.Direction)
	assert.Greater(t, sig.Conviction, 0.0)
}

func TestInstitutionBelowMinValueExcluded(t *testing.T) {
	events := []InstitutionEvent{
		{FundName: "Random Fund LLC", Holding: domain.InstitutionHolding{Ticker: "AAPL", Value: 10_000_000}, FilingDate: "2026-05-15"},
	}
	_, ok := Institution(events, asOf)
	assert.False(t, ok)
}

func TestInstitutionPrestigeBonus(t *testing.T) {
	plainEvents := []InstitutionEvent{
		{FundName: "Random Fund LLC", Holding: domain.InstitutionHolding{Ticker: "AAPL", Value: 500_000_000}, FilingDate: "2026-05-15"},
	}
	prestigeEvents := []InstitutionEvent{
		{FundName: "Berkshire Hathaway Inc", Holding: domain.InstitutionHolding{Ticker: "AAPL", Value: 500_000_000}, FilingDate: "2026-05-15"},
	}

	plain, ok := Institution(plainEvents, asOf)
	assert.True(t, ok)
	prestige, ok := Institution(prestigeEvents, asOf)
	assert.True(t, ok)
	assert.Greater(t, prestige.Conviction, plain.Conviction)
}

func TestInstitutionFundBonusRewardsMultipleHolders(t *testing.T) {
	one := []InstitutionEvent{
		{FundName: "Random Fund LLC", Holding: domain.InstitutionHolding{Ticker: "AAPL", Value: 200_000_000}, FilingDate: "2026-05-15"},
	}
	two := append(one, InstitutionEvent{
		FundName: "Second Fund LLC", Holding: domain.InstitutionHolding{Ticker: "AAPL", Value: 200_000_000}, FilingDate: "2026-05-15",
	})

	single, _ := Institution(one, asOf)
	multi, _ := Institution(two, asOf)
	assert.Greater(t, multi.Conviction, single.Conviction)
}

func TestInsiderSellExcluded(t *testing.T) {
	trades := []domain.InsiderTrade{{Ticker: "AAPL", TransactionType: domain.TradeSell, Value: 1_000_000, TradeDate: "2026-06-10"}}
	_, ok := Insider(trades, asOf)
	assert.False(t, ok)
}

func TestInsiderCEOBonus(t *testing.T) {
	ceoTrade := []domain.InsiderTrade{{Ticker: "AAPL", Title: "Chief Executive Officer", TransactionType: domain.TradeBuy, Value: 500_000, TradeDate: "2026-06-10"}}
	vpTrade := []domain.InsiderTrade{{Ticker: "AAPL", Title: "VP of Engineering", TransactionType: domain.TradeBuy, Value: 500_000, TradeDate: "2026-06-10"}}

	ceo, ok := Insider(ceoTrade, asOf)
	assert.True(t, ok)
	vp, _ := Insider(vpTrade, asOf)
	assert.Greater(t, ceo.Conviction, vp.Conviction)
}

func TestInsiderClusterBonusRewardsDistinctInsiders(t *testing.T) {
	one := []domain.InsiderTrade{
		{Ticker: "XYZ", InsiderName: "A", TransactionType: domain.TradeBuy, Value: 200_000, TradeDate: "2026-06-10"},
	}
	three := []domain.InsiderTrade{
		{Ticker: "XYZ", InsiderName: "A", TransactionType: domain.TradeBuy, Value: 200_000, TradeDate: "2026-06-10"},
		{Ticker: "XYZ", InsiderName: "B", TransactionType: domain.TradeBuy, Value: 200_000, TradeDate: "2026-06-10"},
		{Ticker: "XYZ", InsiderName: "C", TransactionType: domain.TradeBuy, Value: 200_000, TradeDate: "2026-06-10"},
	}

	single, _ := Insider(one, asOf)
	cluster, _ := Insider(three, asOf)
	assert.Greater(t, cluster.Conviction, single.Conviction)
}

func TestAggregateSingleSource(t *testing.T) {
	signals := []domain.RawSignal{
		{Source: domain.SourceCongress, Conviction: 80, Date: "2026-06-10"},
	}
	agg := Aggregate("NVDA", "NVIDIA Corp", signals)
	assert.Equal(t, 1, agg.SourceCount)
	assert.Equal(t, 0.75, agg.SourceCap)
	assert.InDelta(t, 60, agg.Score, 0.01)
}

func TestAggregateMultiSourceBonus(t *testing.T) {
	signals := []domain.RawSignal{
		{Source: domain.SourceCongress, Conviction: 80, Date: "2026-06-10"},
		{Source: domain.SourceArk, Conviction: 70, Date: "2026-06-11"},
		{Source: domain.SourceInsider, Conviction: 60, Date: "2026-06-12"},
	}
	agg := Aggregate("NVDA", "NVIDIA Corp", signals)
	assert.Equal(t, 3, agg.SourceCount)
	assert.Equal(t, 0.90, agg.SourceCap)
	assert.InDelta(t, 40, agg.MultiSourceBonus, 0.01)
	assert.InDelta(t, 100, agg.Score, 0.01)
}

func TestAggregateKeepsStrongestPerSource(t *testing.T) {
	signals := []domain.RawSignal{
		{Source: domain.SourceCongress, Conviction: 40, Date: "2026-06-01"},
		{Source: domain.SourceCongress, Conviction: 90, Date: "2026-06-10"},
	}
	agg := Aggregate("NVDA", "NVIDIA Corp", signals)
	assert.Equal(t, 90.0, agg.MaxConviction)
	assert.Equal(t, "2026-06-10", agg.SignalDate)
}

func TestRecencyDecayBeyondCapIsZero(t *testing.T) {
	assert.Equal(t, 0.0, recencyDecay(100, 14, 60))
}

func TestRecencyDecayAtZeroAgeIsOne(t *testing.T) {
	assert.Equal(t, 1.0, recencyDecay(0, 14, 60))
}

func TestRecencyDecayHalfLife(t *testing.T) {
	assert.InDelta(t, 0.5, recencyDecay(14, 14, 60), 0.0001)
}
