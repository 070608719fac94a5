package confluence

import (
	"sort"

	"github.com/aristath/smartmoney/internal/domain"
)

const (
	alignedMultiplier  = 1.0
	neutralMultiplier  = 0.6
	opposingMultiplier = -0.7
)

var diminishingFactors = []float64{0.5, 0.3, 0.15, 0.1}

// activeSources count toward the direction bonus when their status is
// aligned. Darkpool and institution are listed too, but they always
// classify as neutral, so in practice only congress/insider/ark add to it.
var activeSources = map[string]bool{
	domain.SourceCongress:    true,
	domain.SourceInsider:     true,
	domain.SourceArk:         true,
	domain.SourceDarkpool:    true,
	domain.SourceInstitution: true,
}

var capByAligned = map[int]float64{0: 40, 1: 55, 2: 85, 3: 95}
var capByTotal = map[int]float64{1: 45, 2: 65, 3: 80, 4: 92, 5: 97}
var confluenceByTotal = map[int]float64{1: 1.00, 2: 1.08, 3: 1.18, 4: 1.28, 5: 1.35, 6: 1.40}

func lookupCapByAligned(n int) float64 {
	if n >= 4 {
		return 100
	}
	return capByAligned[n]
}

func lookupCapByTotal(n int) float64 {
	if n >= 6 {
		return 100
	}
	return capByTotal[n]
}

func lookupConfluenceMultiplier(n int) float64 {
	if n >= 6 {
		return 1.40
	}
	if n <= 0 {
		return 1.00
	}
	return confluenceByTotal[n]
}

// Rank scores one ticker's raw signals into a V7 RankedTicker.
func Rank(ticker, company string, signals map[string]domain.RawSignal) domain.RankedTicker {
	dominant, votes := dominantDirection(signals)

	sourceNames := make([]string, 0, len(signals))
	for src := range signals {
		sourceNames = append(sourceNames, src)
	}
	sort.Strings(sourceNames)

	contributions := make([]domain.SourceContribution, 0, len(sourceNames))
	perSourceConviction := make(map[string]float64, len(sourceNames))

	for _, src := range sourceNames {
		sig := signals[src]
		perSourceConviction[src] = sig.Conviction
		class := classify(src, sig, dominant)

		var mult float64
		var status string
		var effectiveConv float64
		switch class {
		case classAligned:
			mult = alignedMultiplier
			status = "aligned"
			effectiveConv = sig.Conviction
		case classNeutral:
			mult = neutralMultiplier
			status = "neutral"
			effectiveConv = sig.Conviction * neutralMultiplier
		default:
			mult = opposingMultiplier
			status = "opposing"
			effectiveConv = 0
		}

		weight := domain.SourceWeights[src]
		contribution := weight * (sig.Conviction / 100) * mult

		contributions = append(contributions, domain.SourceContribution{
			Source:        src,
			Conviction:    sig.Conviction,
			Weight:        weight,
			Direction:     sig.Direction,
			Status:        status,
			EffectiveConv: effectiveConv,
			Contribution:  contribution,
		})
	}

	base, extra, totalSources := baseAndExtra(contributions)
	penalty := penaltySum(contributions)

	alignedActive, alignedPassive := directionBonusCounts(contributions)
	directionBonus := float64(max(alignedActive-1, 0))*6 + float64(alignedPassive)*2

	capAligned := lookupCapByAligned(alignedActive)
	capTotal := lookupCapByTotal(totalSources)
	cap := capAligned
	if capTotal > cap {
		cap = capTotal
	}

	confluenceFactor := lookupConfluenceMultiplier(totalSources)

	raw := (base + extra + directionBonus - penalty) * confluenceFactor
	score := clampScore(raw, cap)

	allSourceCount := len(sourceNames)
	direction := domain.RankDirectionNone
	if allSourceCount > 0 {
		direction = dominant
	}

	breakdown := domain.V7Breakdown{
		Dominant:         dominant,
		Votes:            votes,
		Base:             base,
		Extra:            extra,
		DirectionBonus:   directionBonus,
		Penalty:          penalty,
		Cap:              cap,
		CapByAligned:     capAligned,
		CapByTotal:       capTotal,
		ConfluenceFactor: confluenceFactor,
		AlignedActive:    alignedActive,
		AlignedPassive:   alignedPassive,
		TotalSources:     totalSources,
		Contributions:    contributions,
	}

	return domain.RankedTicker{
		Ticker:               ticker,
		Company:              company,
		Score:                score,
		Direction:            direction,
		Sources:              sourceNames,
		SourceCount:          allSourceCount,
		PerSourceConvictions: perSourceConviction,
		Breakdown:            breakdown,
	}
}

// baseAndExtra builds the positive pool (every non-opposing source),
// sorted by effective conviction descending, folds the top two into a
// weight-normalized base on the 0-100 scale, and folds the remainder
// into a diminishing-returns extra term. It also returns the pool size,
// which is the total_sources figure the cap and confluence multiplier
// are keyed on.
func baseAndExtra(contributions []domain.SourceContribution) (base, extra float64, poolSize int) {
	var pool []domain.SourceContribution
	for _, c := range contributions {
		if c.Status != "opposing" {
			pool = append(pool, c)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].EffectiveConv > pool[j].EffectiveConv })

	top := pool
	if len(top) > 2 {
		top = top[:2]
	}

	var contribSum, weightSum float64
	for _, c := range top {
		contribSum += c.Contribution
		weightSum += c.Weight
	}
	if weightSum > 0 {
		base = contribSum / weightSum * 100
	}

	if len(pool) > 2 {
		remaining := pool[2:]
		for i, c := range remaining {
			factor := diminishingFactors[len(diminishingFactors)-1]
			if i < len(diminishingFactors) {
				factor = diminishingFactors[i]
			}
			extra += c.Contribution * factor
		}
	}

	return base, extra, len(pool)
}

func penaltySum(contributions []domain.SourceContribution) float64 {
	var penalty float64
	for _, c := range contributions {
		if c.Contribution < 0 {
			penalty += -c.Contribution
		}
	}
	return penalty
}

func directionBonusCounts(contributions []domain.SourceContribution) (alignedActive, alignedPassive int) {
	for _, c := range contributions {
		if c.Status != "aligned" {
			continue
		}
		if activeSources[c.Source] {
			alignedActive++
		} else {
			alignedPassive++
		}
	}
	return alignedActive, alignedPassive
}

func clampScore(v, cap float64) float64 {
	if v < 0 {
		return 0
	}
	if v > cap {
		return cap
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
