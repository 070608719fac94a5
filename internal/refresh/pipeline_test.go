package refresh

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/smartmoney/internal/domain"
)

func TestMergeDarkpoolHistoryDedupesByTickerAndDate(t *testing.T) {
	history := []domain.DarkPoolRecord{
		{Ticker: "NVDA", Date: "2026-06-01", DPI: 0.40},
		{Ticker: "NVDA", Date: "2026-06-02", DPI: 0.41},
	}
	today := []domain.DarkPoolRecord{
		{Ticker: "NVDA", Date: "2026-06-02", DPI: 0.55},
		{Ticker: "AMD", Date: "2026-06-02", DPI: 0.30},
	}

	merged := mergeDarkpoolHistory(history, today)

	byKey := make(map[string]domain.DarkPoolRecord)
	for _, r := range merged {
		byKey[r.Ticker+"|"+r.Date] = r
	}

	assert.Len(t, merged, 3)
	assert.Equal(t, 0.55, byKey["NVDA|2026-06-02"].DPI, "today's record should win over history")
	assert.Equal(t, 0.40, byKey["NVDA|2026-06-01"].DPI)
	assert.Equal(t, 0.30, byKey["AMD|2026-06-02"].DPI)
}

func TestMergeDarkpoolHistoryTrimsToRetentionWindow(t *testing.T) {
	var history []domain.DarkPoolRecord
	for i := 0; i < darkpoolHistoryDays+10; i++ {
		history = append(history, domain.DarkPoolRecord{
			Ticker: "NVDA",
			Date:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format("2006-01-02"),
		})
	}

	merged := mergeDarkpoolHistory(history, nil)

	assert.Len(t, merged, darkpoolHistoryDays)
	assert.Equal(t, "2026-01-11", merged[0].Date, "oldest entries should be trimmed first")
}

func TestMergeDarkpoolHistoryEmptyInputs(t *testing.T) {
	assert.Empty(t, mergeDarkpoolHistory(nil, nil))
}

func TestLatestDateByTickerKeepsMaxPerTicker(t *testing.T) {
	trades := []domain.LegislatorTrade{
		{Ticker: "NVDA", TransactionDate: "2026-06-01"},
		{Ticker: "NVDA", TransactionDate: "2026-06-09"},
		{Ticker: "AMD", TransactionDate: "2026-05-01"},
	}

	dates := latestDateByTicker(trades, func(t domain.LegislatorTrade) (string, string) {
		return t.Ticker, t.TransactionDate
	})

	assert.Equal(t, "2026-06-09", dates["NVDA"])
	assert.Equal(t, "2026-05-01", dates["AMD"])
}

func TestLatestDateByTickerEmptyInput(t *testing.T) {
	dates := latestDateByTicker([]domain.LegislatorTrade{}, func(t domain.LegislatorTrade) (string, string) {
		return t.Ticker, t.TransactionDate
	})
	assert.Empty(t, dates)
}
