package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmountRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		lo    float64
		hi    float64
	}{
		{"simple range", "$100,001 - $250,000", 100001, 250000},
		{"over threshold", "Over $50,000,000", 50000000, 50000000},
		{"empty", "", 0, 0},
		{"unparseable", "unknown", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := ParseAmountRange(tt.input)
			assert.Equal(t, tt.lo, lo)
			assert.Equal(t, tt.hi, hi)
		})
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 175000.5, ParseAmount("$100,001 - $250,000", 100001, 250000))
	assert.Equal(t, 8000.0, ParseAmount("$1,001 - $15,000", 0, 0))
	assert.Equal(t, 75000000.0, ParseAmount("Over $50,000,000", 0, 0))
}

func TestNormalizeParty(t *testing.T) {
	assert.Equal(t, "Democrat", NormalizeParty("D"))
	assert.Equal(t, "Republican", NormalizeParty("r"))
	assert.Equal(t, "Independent", NormalizeParty("Independent"))
	assert.Equal(t, "Libertarian", NormalizeParty(" Libertarian "))
}

func TestNormalizePartyIdempotent(t *testing.T) {
	for _, in := range []string{"D", "Republican", "I", "Libertarian", ""} {
		once := NormalizeParty(in)
		twice := NormalizeParty(once)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeChamber(t *testing.T) {
	assert.Equal(t, "House", NormalizeChamber("U.S. House of Representatives"))
	assert.Equal(t, "Senate", NormalizeChamber("senate"))
	assert.Equal(t, "", NormalizeChamber(""))
}

func TestNormalizeTradeType(t *testing.T) {
	assert.Equal(t, "Buy", NormalizeTradeType("purchase"))
	assert.Equal(t, "Buy", NormalizeTradeType("Buy"))
	assert.Equal(t, "Sell", NormalizeTradeType("sale"))
	assert.Equal(t, "Exchange", NormalizeTradeType("Exchange"))
	assert.Equal(t, "Other", NormalizeTradeType(" Other "))
}

func TestArkChangeToTradeType(t *testing.T) {
	assert.Equal(t, "Buy", ArkChangeToTradeType("NEW_POSITION"))
	assert.Equal(t, "Buy", ArkChangeToTradeType("INCREASED"))
	assert.Equal(t, "Sell", ArkChangeToTradeType("DECREASED"))
	assert.Equal(t, "Sell", ArkChangeToTradeType("SOLD_OUT"))
}

func TestFilingDateToQuarter(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-02-14", "Q4_2025"},
		{"2026-05-14", "Q1_2026"},
		{"2026-08-14", "Q2_2026"},
		{"2026-11-14", "Q3_2026"},
		{"not-a-date", "Q0_0000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FilingDateToQuarter(tt.date))
	}
}

func TestFilingDateToQuarterDeterministic(t *testing.T) {
	for y := 1900; y <= 2100; y += 7 {
		for _, m := range []string{"01", "04", "07", "10"} {
			q := FilingDateToQuarter(newDate(y, m))
			assert.Regexp(t, `^Q[0-4]_\d{4}$`, q)
		}
	}
}

func newDate(year int, month string) string {
	return itoa(year) + "-" + month + "-15"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestCUSIPToTicker(t *testing.T) {
	ticker, ok := CUSIPToTicker("037833100")
	assert.True(t, ok)
	assert.Equal(t, "AAPL", ticker)

	_, ok = CUSIPToTicker("000000000")
	assert.False(t, ok)
}

func TestDPI(t *testing.T) {
	assert.InDelta(t, 0.5, DPI(50, 100), 0.0001)
	assert.Equal(t, 0.0, DPI(50, 0))
}

func TestIsValidTicker(t *testing.T) {
	assert.True(t, IsValidTicker("AAPL"))
	assert.True(t, IsValidTicker("BRK.B"))
	assert.False(t, IsValidTicker("--"))
	assert.False(t, IsValidTicker(""))
	assert.False(t, IsValidTicker("TOOLONGTICKER"))
}
