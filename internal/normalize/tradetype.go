package normalize

import "strings"

// NormalizeTradeType maps common synonyms to the canonical Buy/Sell/
// Exchange enumeration; anything else passes through trimmed.
func NormalizeTradeType(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "purchase", "buy":
		return "Buy"
	case "sale", "sell":
		return "Sell"
	case "exchange":
		return "Exchange"
	default:
		return s
	}
}

// ArkChangeToTradeType derives a Buy/Sell trade type from an ARK
// change_type classification.
func ArkChangeToTradeType(changeType string) string {
	switch changeType {
	case "NEW_POSITION", "INCREASED":
		return "Buy"
	case "DECREASED", "SOLD_OUT":
		return "Sell"
	default:
		return ""
	}
}
