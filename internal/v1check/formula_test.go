package v1check

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var asOf = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func TestScoreTickerScenarioANVDA(t *testing.T) {
	score := ScoreTicker("NVDA", "2026-06-09", "2026-06-13", "2026-06-14", asOf)
	assert.Equal(t, 3, score.SourceCount)
	assert.InDelta(t, 8.46, score.Value, 0.15)
}

func TestScoreTickerCapsAtTen(t *testing.T) {
	score := ScoreTicker("HOT", "2026-06-15", "2026-06-15", "2026-06-15", asOf)
	assert.LessOrEqual(t, score.Value, 10.0)
}

func TestScoreTickerNoSourcesIsZero(t *testing.T) {
	score := ScoreTicker("COLD", "", "", "", asOf)
	assert.Equal(t, 0, score.SourceCount)
	assert.Equal(t, 0.0, score.Value)
}

func TestScoreTickerMalformedDateIgnored(t *testing.T) {
	score := ScoreTicker("BAD", "not-a-date", "", "", asOf)
	assert.Equal(t, 0, score.SourceCount)
}

func TestTopPickPrefersHighestScorer(t *testing.T) {
	congress := map[string]string{"NVDA": "2026-06-09", "AMD": "2026-05-01"}
	ark := map[string]string{"NVDA": "2026-06-13"}
	darkpool := map[string]string{"NVDA": "2026-06-14"}

	ticker, ok := TopPick(congress, ark, darkpool, asOf)
	assert.True(t, ok)
	assert.Equal(t, "NVDA", ticker)
}

func TestTopPickEmptyInputs(t *testing.T) {
	_, ok := TopPick(nil, nil, nil, asOf)
	assert.False(t, ok)
}
