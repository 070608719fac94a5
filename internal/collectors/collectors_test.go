package collectors

import (
	"strings"
	"testing"
	"time"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDarkpoolFile(t *testing.T) {
	raw := strings.Join([]string{
		"Date|Symbol|ShortVolume|ShortExemptVolume|TotalVolume|Market",
		"20260610|AMC|420000|1000|1000000|ADF",
		"20260610|--|100|0|1000|ADF",
		"20260610|GME|0|0|0|ADF",
	}, "\n")

	records, err := ParseDarkpoolFile(strings.NewReader(raw), "20260610")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "AMC", records[0].Ticker)
	assert.Equal(t, "2026-06-10", records[0].Date)
	assert.InDelta(t, 0.42, records[0].DPI, 0.0001)
}

func TestParseDarkpoolFileSkipsZeroVolume(t *testing.T) {
	raw := "Date|Symbol|ShortVolume|ShortExemptVolume|TotalVolume|Market\n20260610|ZERO|0|0|0|ADF"
	records, err := ParseDarkpoolFile(strings.NewReader(raw), "20260610")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDetectClustersRequiresThreeDistinctInsiders(t *testing.T) {
	trades := []domain.InsiderTrade{
		{Ticker: "XYZ", InsiderName: "Alice", TransactionType: domain.TradeBuy, TradeDate: "2026-06-01", Value: 100000},
		{Ticker: "XYZ", InsiderName: "Bob", TransactionType: domain.TradeBuy, TradeDate: "2026-06-05", Value: 100000},
	}
	clusters := DetectClusters(trades)
	assert.Empty(t, clusters)
}

func TestDetectClustersScenarioC(t *testing.T) {
	trades := []domain.InsiderTrade{
		{Ticker: "XYZ", InsiderName: "Alice", TransactionType: domain.TradeBuy, TradeDate: "2026-06-01", Value: 250000},
		{Ticker: "XYZ", InsiderName: "Carol", TransactionType: domain.TradeBuy, TradeDate: "2026-06-05", Value: 250000},
		{Ticker: "XYZ", InsiderName: "Bob", TransactionType: domain.TradeBuy, TradeDate: "2026-06-10", Value: 250000},
	}
	clusters := DetectClusters(trades)
	require.Len(t, clusters, 1)
	assert.Equal(t, "XYZ", clusters[0].Ticker)
	assert.Equal(t, 3, clusters[0].InsiderCount)
	assert.InDelta(t, 750000, clusters[0].TotalValue, 0.01)
}

func TestDetectClustersExcludesTradesOutsideWindow(t *testing.T) {
	trades := []domain.InsiderTrade{
		{Ticker: "XYZ", InsiderName: "Alice", TransactionType: domain.TradeBuy, TradeDate: "2026-01-01", Value: 100000},
		{Ticker: "XYZ", InsiderName: "Bob", TransactionType: domain.TradeBuy, TradeDate: "2026-06-10", Value: 100000},
	}
	clusters := DetectClusters(trades)
	assert.Empty(t, clusters)
}

func TestDeriveTradesNewPosition(t *testing.T) {
	current := map[string]domain.ArkHolding{
		"NVDA": {Ticker: "NVDA", Shares: 1000},
	}
	trades := deriveTrades("ARKK", "2026-06-10", nil, current)
	require.Len(t, trades, 1)
	assert.Equal(t, domain.ChangeNewPosition, trades[0].ChangeType)
	assert.Equal(t, domain.TradeBuy, trades[0].TradeType)
}

func TestDeriveTradesSoldOut(t *testing.T) {
	prior := map[string]domain.ArkHolding{
		"NVDA": {Ticker: "NVDA", Shares: 1000},
	}
	trades := deriveTrades("ARKK", "2026-06-10", prior, map[string]domain.ArkHolding{})
	require.Len(t, trades, 1)
	assert.Equal(t, domain.ChangeSoldOut, trades[0].ChangeType)
	assert.Equal(t, domain.TradeSell, trades[0].TradeType)
}

func TestIsEligibleShortInterestSymbol(t *testing.T) {
	assert.True(t, isEligibleShortInterestSymbol("AAPL"))
	assert.False(t, isEligibleShortInterestSymbol("ABC+"))
	assert.False(t, isEligibleShortInterestSymbol("TOOLONG"))
}

func TestBackoffForFetchFailureIsRetryableUntilCap(t *testing.T) {
	err := &apperrors.FetchFailure{Source: "test"}
	wait, retryable := backoffFor(err, 1)
	assert.True(t, retryable)
	assert.Equal(t, baseBackoff, wait)

	_, retryable = backoffFor(err, maxFetchAttempts)
	assert.False(t, retryable)
}

func TestBackoffForAuthFailureNeverRetries(t *testing.T) {
	err := &apperrors.AuthFailure{Source: "test"}
	_, retryable := backoffFor(err, 1)
	assert.False(t, retryable)
}

func TestBackoffForRateLimitedUsesRetryAfter(t *testing.T) {
	err := &apperrors.RateLimited{Source: "test", RetryAfter: 5}
	wait, retryable := backoffFor(err, 1)
	assert.True(t, retryable)
	assert.Equal(t, 5*time.Second, wait)
}

var _ = time.Second
