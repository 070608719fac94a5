package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
)

const insiderClusterWindowDays = 14

// InsidersCollector fetches recent Form 4 insider transactions and
// derives clusters: distinct insiders buying the same ticker within a
// short window, a stronger signal than any single filing.
type InsidersCollector struct {
	client     *http.Client
	baseURL    string
	resilience *Resilience
	log        zerolog.Logger
}

func NewInsidersCollector(baseURL string, log zerolog.Logger) *InsidersCollector {
	return &InsidersCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		resilience: NewResilience("insiders", 3, 6, log),
		log:        log.With().Str("component", "collectors.Insiders").Logger(),
	}
}

func (c *InsidersCollector) Name() string { return domain.SourceInsider }

// InsidersResult is what Collect returns.
type InsidersResult struct {
	Trades   []domain.InsiderTrade
	Clusters []domain.InsiderCluster
}

func (c *InsidersCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.resilience.Do(ctx, c.fetch)
}

type form4DTO struct {
	Ticker          string  `json:"ticker"`
	InsiderName     string  `json:"insider_name"`
	Title           string  `json:"title"`
	TransactionCode string  `json:"transaction_code"`
	TransactionDate string  `json:"transaction_date"`
	Shares          float64 `json:"shares"`
	PricePerShare   float64 `json:"price_per_share"`
}

func (c *InsidersCollector) fetch(ctx context.Context) (interface{}, error) {
	url := fmt.Sprintf("%s/form4/recent", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building insider request", Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "sec-form4", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "sec-form4", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "sec-form4", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "sec-form4", Cause: err}
	}

	var dtos []form4DTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, &apperrors.InputMalformed{Detail: "form4 response", Cause: err}
	}

	trades := make([]domain.InsiderTrade, 0, len(dtos))
	for _, dto := range dtos {
		ticker := normalize.NormalizeTicker(dto.Ticker)
		if !normalize.IsValidTicker(ticker) {
			continue
		}
		// Code "P" is an open-market purchase, "S" a sale; everything
		// else (gifts, option exercises, derivative conversions) is
		// dropped rather than mapped, since it carries no conviction.
		var tradeType string
		switch dto.TransactionCode {
		case "P":
			tradeType = domain.TradeBuy
		case "S":
			tradeType = domain.TradeSell
		default:
			continue
		}

		trades = append(trades, domain.InsiderTrade{
			Ticker:          ticker,
			InsiderName:     dto.InsiderName,
			Title:           dto.Title,
			TransactionType: tradeType,
			TradeDate:       dto.TransactionDate,
			Value:           dto.Shares * dto.PricePerShare,
		})
	}

	clusters := DetectClusters(trades)

	return InsidersResult{Trades: trades, Clusters: clusters}, nil
}

// DetectClusters finds, per ticker, groups of three or more distinct
// insiders who each bought within any insiderClusterWindowDays span.
func DetectClusters(trades []domain.InsiderTrade) []domain.InsiderCluster {
	byTicker := make(map[string][]domain.InsiderTrade)
	for _, t := range trades {
		if t.TransactionType != domain.TradeBuy {
			continue
		}
		byTicker[t.Ticker] = append(byTicker[t.Ticker], t)
	}

	var clusters []domain.InsiderCluster
	for ticker, tickerTrades := range byTicker {
		sort.Slice(tickerTrades, func(i, j int) bool {
			return tickerTrades[i].TradeDate < tickerTrades[j].TradeDate
		})

		seen := make(map[string]bool)
		var windowTrades []domain.InsiderTrade

		for _, t := range tickerTrades {
			windowTrades = append(windowTrades, t)
			windowTrades = trimToWindow(windowTrades, t.TradeDate, insiderClusterWindowDays)

			seen = make(map[string]bool)
			var total float64
			for _, wt := range windowTrades {
				seen[wt.InsiderName] = true
				total += wt.Value
			}

			if len(seen) >= 3 {
				names := make([]string, 0, len(seen))
				for n := range seen {
					names = append(names, n)
				}
				sort.Strings(names)

				clusters = append(clusters, domain.InsiderCluster{
					Ticker:       ticker,
					InsiderCount: len(seen),
					TotalValue:   total,
					Insiders:     names,
					FirstDate:    windowTrades[0].TradeDate,
					LastDate:     windowTrades[len(windowTrades)-1].TradeDate,
				})
			}
		}
	}

	return dedupeClusters(clusters)
}

func trimToWindow(trades []domain.InsiderTrade, latest string, windowDays int) []domain.InsiderTrade {
	latestDate, err := parseDate(latest)
	if err != nil {
		return trades
	}
	var out []domain.InsiderTrade
	for _, t := range trades {
		d, err := parseDate(t.TradeDate)
		if err != nil {
			continue
		}
		if latestDate.Sub(d).Hours()/24 <= float64(windowDays) {
			out = append(out, t)
		}
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// dedupeClusters keeps only the largest cluster per ticker, since the
// sliding window above emits one candidate per trade processed.
func dedupeClusters(clusters []domain.InsiderCluster) []domain.InsiderCluster {
	best := make(map[string]domain.InsiderCluster)
	for _, c := range clusters {
		existing, ok := best[c.Ticker]
		if !ok || c.InsiderCount > existing.InsiderCount {
			best[c.Ticker] = c
		}
	}

	tickers := make([]string, 0, len(best))
	for t := range best {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	out := make([]domain.InsiderCluster, 0, len(best))
	for _, t := range tickers {
		out = append(out, best[t])
	}
	return out
}
