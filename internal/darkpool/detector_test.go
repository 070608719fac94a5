package darkpool

import (
	"fmt"
	"testing"
	"time"

	"github.com/aristath/smartmoney/internal/domain"
	"github.com/stretchr/testify/assert"
)

func buildHistory(ticker string, baselineLow, baselineHigh, currentDPI float64, asOf time.Time) []domain.DarkPoolRecord {
	var history []domain.DarkPoolRecord
	for i := 30; i >= 1; i-- {
		dpi := baselineLow
		if i%2 == 0 {
			dpi = baselineHigh
		}
		date := asOf.AddDate(0, 0, -i)
		history = append(history, domain.DarkPoolRecord{
			Ticker:      ticker,
			Date:        date.Format("2006-01-02"),
			ShortVolume: dpi * 1000000,
			TotalVolume: 1000000,
			DPI:         dpi,
		})
	}
	history = append(history, domain.DarkPoolRecord{
		Ticker:      ticker,
		Date:        asOf.Format("2006-01-02"),
		ShortVolume: currentDPI * 2000000,
		TotalVolume: 2000000,
		DPI:         currentDPI,
	})
	return history
}

func TestDetectRequiresMinHistory(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	short := buildHistory("XYZ", 0.13, 0.27, 0.42, asOf)[:19]
	_, ok := Detect(short, asOf)
	assert.False(t, ok)
}

func TestDetectAnomalyScenarioB(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	history := buildHistory("AMC", 0.13, 0.27, 0.42, asOf)

	entry, ok := Detect(history, asOf)
	assert.True(t, ok)
	assert.Equal(t, "AMC", entry.Ticker)
	assert.InDelta(t, 0.42, entry.DPI, 0.0001)
	assert.GreaterOrEqual(t, entry.ZScore, 2.0)
	assert.InDelta(t, 3.1, entry.ZScore, 0.5)
	assert.True(t, entry.IsAnomaly)
}

func TestDetectNotAnomalyWhenDPITooLow(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	history := buildHistory("LOWDPI", 0.13, 0.27, 0.35, asOf)

	entry, ok := Detect(history, asOf)
	assert.True(t, ok)
	assert.False(t, entry.IsAnomaly)
}

func TestDetectNotAnomalyWhenVolumeTooLow(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	history := buildHistory("LOWVOL", 0.13, 0.27, 0.42, asOf)
	history[len(history)-1].TotalVolume = 10000

	entry, ok := Detect(history, asOf)
	assert.True(t, ok)
	assert.False(t, entry.IsAnomaly)
}

func TestDetectNotAnomalyWhenStale(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	history := buildHistory("STALE", 0.13, 0.27, 0.42, asOf)
	history[len(history)-1].Date = asOf.AddDate(0, 0, -10).Format("2006-01-02")

	entry, ok := Detect(history, asOf)
	assert.True(t, ok)
	assert.False(t, entry.IsAnomaly)
}

func TestDetectWindowCapsAt30(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	var history []domain.DarkPoolRecord
	for i := 60; i >= 1; i-- {
		dpi := 0.9
		if i > 30 {
			dpi = 0.05
		}
		history = append(history, domain.DarkPoolRecord{
			Ticker:      "WIN",
			Date:        asOf.AddDate(0, 0, -i).Format("2006-01-02"),
			ShortVolume: dpi * 1000000,
			TotalVolume: 1000000,
			DPI:         dpi,
		})
	}
	history = append(history, domain.DarkPoolRecord{
		Ticker:      "WIN",
		Date:        asOf.Format("2006-01-02"),
		ShortVolume: 0.9 * 2000000,
		TotalVolume: 2000000,
		DPI:         0.9,
	})

	entry, ok := Detect(history, asOf)
	assert.True(t, ok)
	assert.True(t, entry.ZScore < 1.0, fmt.Sprintf("expected low z-score because the stale 0.05 baseline is excluded from the 30-day window, got %f", entry.ZScore))
}

func TestDetectAll(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	byTicker := map[string][]domain.DarkPoolRecord{
		"AMC": buildHistory("AMC", 0.13, 0.27, 0.42, asOf),
		"GME": buildHistory("GME", 0.13, 0.27, 0.15, asOf),
	}
	entries := DetectAll(byTicker, asOf)
	assert.Len(t, entries, 2)
}
