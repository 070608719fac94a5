package conviction

import (
	"time"

	"github.com/aristath/smartmoney/internal/domain"
)

const (
	darkpoolHalfLifeDays = 7
	darkpoolCapDays      = 14
	darkpoolMinZ         = 2.0
)

func darkpoolZTier(z float64) float64 {
	switch {
	case z >= 5:
		return 85
	case z >= 4:
		return 70
	case z >= 3:
		return 50
	default:
		return 30
	}
}

func darkpoolDPIBonus(dpi float64) float64 {
	switch {
	case dpi >= 0.8:
		return 15
	case dpi >= 0.6:
		return 10
	case dpi >= 0.4:
		return 5
	default:
		return 0
	}
}

func darkpoolVolumeBonus(totalVolume float64) float64 {
	switch {
	case totalVolume >= 10_000_000:
		return 15
	case totalVolume >= 5_000_000:
		return 10
	case totalVolume >= 1_000_000:
		return 5
	default:
		return 0
	}
}

// Darkpool scores one anomalous dark-pool day. Entries that never
// crossed the anomaly Z-score threshold are not scored.
func Darkpool(entry domain.DarkPoolEntry, asOf time.Time) (domain.RawSignal, bool) {
	if entry.ZScore < darkpoolMinZ {
		return domain.RawSignal{}, false
	}

	age := daysAgo(entry.Date, asOf)
	decay := recencyDecay(age, darkpoolHalfLifeDays, darkpoolCapDays)
	score := darkpoolZTier(entry.ZScore)*decay + darkpoolDPIBonus(entry.DPI) + darkpoolVolumeBonus(entry.TotalVolume)

	return domain.RawSignal{
		Ticker:      entry.Ticker,
		Source:      domain.SourceDarkpool,
		Direction:   "",
		Date:        entry.Date,
		Conviction:  clamp(score, 0, 100),
		Description: "dark pool anomaly",
	}, true
}
