package confluence

import "github.com/aristath/smartmoney/internal/domain"

// RankAll runs Rank for every ticker's signal set and returns the
// results sorted by score, descending.
func RankAll(signalsByTicker map[string]map[string]domain.RawSignal, companyNames map[string]string) []domain.RankedTicker {
	out := make([]domain.RankedTicker, 0, len(signalsByTicker))
	for ticker, signals := range signalsByTicker {
		company := companyNames[ticker]
		if company == "" {
			company = ticker
		}
		out = append(out, Rank(ticker, company, signals))
	}
	sortByScoreDesc(out)
	return out
}

func sortByScoreDesc(tickers []domain.RankedTicker) {
	for i := 1; i < len(tickers); i++ {
		for j := i; j > 0 && tickers[j-1].Score < tickers[j].Score; j-- {
			tickers[j-1], tickers[j] = tickers[j], tickers[j-1]
		}
	}
}
