package collectors

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
)

// arkETFs are the ARK Invest actively managed ETFs published daily as
// CSV holdings files.
var arkETFs = []string{"ARKK", "ARKW", "ARKG", "ARKF", "ARKQ"}

// ArkCollector fetches ARK Invest's daily published CSV holdings and
// derives day-over-day trade deltas.
type ArkCollector struct {
	client     *http.Client
	baseURL    string
	resilience *Resilience
	log        zerolog.Logger

	// previous holds yesterday's holdings snapshot, keyed by ETF then
	// ticker, so Collect can derive trade deltas without a database
	// round-trip. A fresh process starts with no prior snapshot and
	// reports the first day's holdings as NEW_POSITION only when shares
	// increased from zero, matching a cold cache.
	previous map[string]map[string]domain.ArkHolding
}

// NewArkCollector builds an ArkCollector.
func NewArkCollector(baseURL string, log zerolog.Logger) *ArkCollector {
	return &ArkCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		resilience: NewResilience("ark", 1, 3, log),
		log:        log.With().Str("component", "collectors.Ark").Logger(),
		previous:   make(map[string]map[string]domain.ArkHolding),
	}
}

func (c *ArkCollector) Name() string { return domain.SourceArk }

// ArkResult is what Collect returns: the current holdings snapshot and
// the trades derived against the previous snapshot.
type ArkResult struct {
	Holdings []domain.ArkHolding
	Trades   []domain.ArkTrade
}

func (c *ArkCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.resilience.Do(ctx, c.fetch)
}

func (c *ArkCollector) fetch(ctx context.Context) (interface{}, error) {
	date := time.Now().UTC().Format("2006-01-02")

	var allHoldings []domain.ArkHolding
	var allTrades []domain.ArkTrade

	for _, etf := range arkETFs {
		holdings, err := c.fetchETF(ctx, etf, date)
		if err != nil {
			return nil, err
		}

		currentByTicker := make(map[string]domain.ArkHolding, len(holdings))
		for _, h := range holdings {
			currentByTicker[h.Ticker] = h
		}

		priorByTicker := c.previous[etf]
		allTrades = append(allTrades, deriveTrades(etf, date, priorByTicker, currentByTicker)...)
		allHoldings = append(allHoldings, holdings...)

		c.previous[etf] = currentByTicker
	}

	return ArkResult{Holdings: allHoldings, Trades: allTrades}, nil
}

func (c *ArkCollector) fetchETF(ctx context.Context, etf, date string) ([]domain.ArkHolding, error) {
	url := fmt.Sprintf("%s/%s_HOLDINGS.csv", c.baseURL, etf)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building ark request", Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "ark-funds", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "ark-funds", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "ark-funds", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "ark holdings csv", Cause: err}
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	col := columnIndex(header)

	var holdings []domain.ArkHolding
	for _, row := range rows[1:] {
		ticker := normalize.NormalizeTicker(getCol(row, col, "ticker"))
		if !normalize.IsValidTicker(ticker) {
			continue
		}
		holdings = append(holdings, domain.ArkHolding{
			Ticker:      ticker,
			ETF:         etf,
			Shares:      parseFloat(getCol(row, col, "shares")),
			WeightPct:   parseFloat(getCol(row, col, "weight(%)")),
			MarketValue: parseFloat(getCol(row, col, "market value($)")),
			Date:        date,
		})
	}

	return holdings, nil
}

func deriveTrades(etf, date string, prior, current map[string]domain.ArkHolding) []domain.ArkTrade {
	var trades []domain.ArkTrade

	for ticker, curr := range current {
		prev, existed := prior[ticker]
		switch {
		case !existed:
			trades = append(trades, domain.ArkTrade{
				Ticker: ticker, ETF: etf, Date: date, Shares: curr.Shares,
				WeightPct: curr.WeightPct, ChangeType: domain.ChangeNewPosition,
				TradeType: normalize.ArkChangeToTradeType(domain.ChangeNewPosition),
			})
		case curr.Shares > prev.Shares:
			trades = append(trades, domain.ArkTrade{
				Ticker: ticker, ETF: etf, Date: date, Shares: curr.Shares - prev.Shares,
				WeightPct: curr.WeightPct, ChangeType: domain.ChangeIncreased,
				TradeType: normalize.ArkChangeToTradeType(domain.ChangeIncreased),
			})
		case curr.Shares < prev.Shares:
			trades = append(trades, domain.ArkTrade{
				Ticker: ticker, ETF: etf, Date: date, Shares: prev.Shares - curr.Shares,
				WeightPct: curr.WeightPct, ChangeType: domain.ChangeDecreased,
				TradeType: normalize.ArkChangeToTradeType(domain.ChangeDecreased),
			})
		}
	}

	for ticker, prev := range prior {
		if _, stillHeld := current[ticker]; !stillHeld {
			trades = append(trades, domain.ArkTrade{
				Ticker: ticker, ETF: etf, Date: date, Shares: prev.Shares,
				ChangeType: domain.ChangeSoldOut,
				TradeType:  normalize.ArkChangeToTradeType(domain.ChangeSoldOut),
			})
		}
	}

	return trades
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func normalizeHeader(h string) string {
	out := make([]byte, 0, len(h))
	for _, r := range h {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		if r == ' ' {
			continue
		}
		out = append(out, byte(r))
	}
	return string(out)
}

func getCol(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
