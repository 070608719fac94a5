// Package confluence implements the V7 multi-source ranking algorithm:
// it takes the raw per-source signals for a ticker, determines a
// dominant direction, classifies each source as aligned, neutral, or
// opposing, and folds the result into a single bounded score.
package confluence

import "github.com/aristath/smartmoney/internal/domain"

// directionalSources vote on a ticker's dominant direction; the rest
// never carry direction no matter what the raw record implies.
var directionalSources = map[string]bool{
	domain.SourceCongress:      true,
	domain.SourceArk:           true,
	domain.SourceInsider:       true,
	domain.SourceSuperinvestor: true,
}

func isDirectional(source string) bool {
	return directionalSources[source]
}

// dominantDirection runs a weighted vote across directional sources
// present for a ticker. A tie (including no directional sources at all)
// resolves to bullish. The returned map records the two vote totals for
// the breakdown artifact.
func dominantDirection(signals map[string]domain.RawSignal) (string, map[string]float64) {
	var bullish, bearish float64
	for source, sig := range signals {
		if !isDirectional(source) {
			continue
		}
		weight := domain.SourceWeights[source]
		magnitude := weight * (sig.Conviction / 100)
		switch sig.Direction {
		case domain.DirectionBullish:
			bullish += magnitude
		case domain.DirectionBearish:
			bearish += magnitude
		}
	}
	votes := map[string]float64{
		domain.RankDirectionBullish: bullish,
		domain.RankDirectionBearish: bearish,
	}
	if bearish > bullish {
		return domain.RankDirectionBearish, votes
	}
	return domain.RankDirectionBullish, votes
}

// classification is a source's relationship to the dominant direction.
type classification int

const (
	classAligned classification = iota
	classNeutral
	classOpposing
)

func classify(source string, sig domain.RawSignal, dominant string) classification {
	if !isDirectional(source) {
		return classNeutral
	}
	want := domain.DirectionBullish
	if dominant == domain.RankDirectionBearish {
		want = domain.DirectionBearish
	}
	if sig.Direction == want {
		return classAligned
	}
	return classOpposing
}
