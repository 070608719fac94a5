package confluence

import (
	"testing"

	"github.com/aristath/smartmoney/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sig(source, direction string, conviction float64) domain.RawSignal {
	return domain.RawSignal{Source: source, Direction: direction, Conviction: conviction}
}

func TestRankNoSourcesIsZero(t *testing.T) {
	ranked := Rank("NONE", "Nobody Inc", map[string]domain.RawSignal{})
	assert.Equal(t, 0.0, ranked.Score)
	assert.Equal(t, domain.RankDirectionNone, ranked.Direction)
}

// Scenario A: a multi-source aligned confluence should rank highest and
// score near the high end of the scale.
func TestRankScenarioAHighConfluence(t *testing.T) {
	signals := map[string]domain.RawSignal{
		domain.SourceCongress:    sig(domain.SourceCongress, domain.DirectionBullish, 85),
		domain.SourceInsider:     sig(domain.SourceInsider, domain.DirectionBullish, 80),
		domain.SourceArk:         sig(domain.SourceArk, domain.DirectionBullish, 75),
		domain.SourceDarkpool:    sig(domain.SourceDarkpool, "", 70),
		domain.SourceInstitution: sig(domain.SourceInstitution, "", 65),
	}
	nvda := Rank("NVDA", "NVIDIA Corp", signals)

	single := Rank("SINGLE", "Single Source Co", map[string]domain.RawSignal{
		domain.SourceCongress: sig(domain.SourceCongress, domain.DirectionBullish, 85),
	})

	assert.Equal(t, domain.RankDirectionBullish, nvda.Direction)
	assert.Greater(t, nvda.Score, single.Score)
	assert.Equal(t, 5, nvda.SourceCount)
	assert.Equal(t, 3, nvda.Breakdown.AlignedActive)
	assert.Equal(t, 0, nvda.Breakdown.AlignedPassive)
}

// Scenario D: an opposing source should reduce the score relative to
// the same ticker without the opposing signal.
func TestRankScenarioDOpposingPenalty(t *testing.T) {
	withoutOpposition := Rank("Y", "Ticker Y Inc", map[string]domain.RawSignal{
		domain.SourceCongress: sig(domain.SourceCongress, domain.DirectionBullish, 80),
		domain.SourceInsider:  sig(domain.SourceInsider, domain.DirectionBullish, 70),
	})
	withOpposition := Rank("Y", "Ticker Y Inc", map[string]domain.RawSignal{
		domain.SourceCongress: sig(domain.SourceCongress, domain.DirectionBullish, 80),
		domain.SourceInsider:  sig(domain.SourceInsider, domain.DirectionBullish, 70),
		domain.SourceArk:      sig(domain.SourceArk, domain.DirectionBearish, 60),
	})

	assert.Less(t, withOpposition.Score, withoutOpposition.Score)
	assert.Greater(t, withOpposition.Breakdown.Penalty, 0.0)
}

// Scenario E: a ticker with only a single always-neutral source should
// be capped at 45 regardless of how high its conviction runs.
func TestRankScenarioEAlwaysNeutralCap(t *testing.T) {
	ranked := Rank("Z", "Ticker Z Inc", map[string]domain.RawSignal{
		domain.SourceDarkpool: sig(domain.SourceDarkpool, "", 95),
	})

	assert.Equal(t, 45.0, ranked.Breakdown.Cap)
	assert.Equal(t, 45.0, ranked.Score)
	assert.Equal(t, 0, ranked.Breakdown.AlignedActive)
	assert.Equal(t, 0, ranked.Breakdown.AlignedPassive)
}

// I3: score is always within [0, 100].
func TestInvariantScoreBounded(t *testing.T) {
	signals := map[string]domain.RawSignal{
		domain.SourceCongress:      sig(domain.SourceCongress, domain.DirectionBullish, 100),
		domain.SourceInsider:       sig(domain.SourceInsider, domain.DirectionBullish, 100),
		domain.SourceArk:           sig(domain.SourceArk, domain.DirectionBullish, 100),
		domain.SourceDarkpool:      sig(domain.SourceDarkpool, "", 100),
		domain.SourceInstitution:   sig(domain.SourceInstitution, "", 100),
		domain.SourceSuperinvestor: sig(domain.SourceSuperinvestor, domain.DirectionBullish, 100),
		domain.SourceShortInterest: sig(domain.SourceShortInterest, "", 100),
	}
	ranked := Rank("MAX", "Max Co", signals)
	assert.GreaterOrEqual(t, ranked.Score, 0.0)
	assert.LessOrEqual(t, ranked.Score, 100.0)
}

// I4: always-neutral sources never classify as aligned.
func TestInvariantNeutralSourcesNeverAligned(t *testing.T) {
	for _, source := range domain.NeutralSources {
		ranked := Rank("T", "T Inc", map[string]domain.RawSignal{
			source: sig(source, "", 90),
		})
		for _, c := range ranked.Breakdown.Contributions {
			if c.Source == source {
				assert.Equal(t, "neutral", c.Status)
			}
		}
	}
}

// I5: more corroborating sources never reduce the confluence multiplier.
func TestInvariantConfluenceMultiplierMonotonic(t *testing.T) {
	prev := 0.0
	for n := 1; n <= 7; n++ {
		m := lookupConfluenceMultiplier(n)
		assert.GreaterOrEqual(t, m, prev)
		prev = m
	}
}

// I10: ranking is deterministic for identical input.
func TestInvariantDeterministic(t *testing.T) {
	signals := map[string]domain.RawSignal{
		domain.SourceCongress: sig(domain.SourceCongress, domain.DirectionBullish, 77),
		domain.SourceArk:      sig(domain.SourceArk, domain.DirectionBullish, 61),
	}
	first := Rank("DET", "Deterministic Co", signals)
	second := Rank("DET", "Deterministic Co", signals)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Breakdown, second.Breakdown)
}

func TestRankAllSortsByScoreDescending(t *testing.T) {
	byTicker := map[string]map[string]domain.RawSignal{
		"LOW": {
			domain.SourceDarkpool: sig(domain.SourceDarkpool, "", 50),
		},
		"HIGH": {
			domain.SourceCongress: sig(domain.SourceCongress, domain.DirectionBullish, 90),
			domain.SourceInsider:  sig(domain.SourceInsider, domain.DirectionBullish, 90),
			domain.SourceArk:      sig(domain.SourceArk, domain.DirectionBullish, 90),
		},
	}
	ranked := RankAll(byTicker, map[string]string{"LOW": "Low Co", "HIGH": "High Co"})
	assert.Len(t, ranked, 2)
	assert.Equal(t, "HIGH", ranked[0].Ticker)
}
