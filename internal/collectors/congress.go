package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
)

// CongressCollector fetches recent congressional stock disclosures from
// the QuiverQuant congress-trading endpoint.
type CongressCollector struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	resilience *Resilience
	log        zerolog.Logger
}

// NewCongressCollector builds a CongressCollector. An empty apiKey still
// works against QuiverQuant's free tier at a lower rate limit.
func NewCongressCollector(baseURL, apiKey string, log zerolog.Logger) *CongressCollector {
	return &CongressCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		resilience: NewResilience("congress", 2, 5, log),
		log:        log.With().Str("component", "collectors.Congress").Logger(),
	}
}

func (c *CongressCollector) Name() string { return domain.SourceCongress }

type congressTradeDTO struct {
	Ticker          string `json:"Ticker"`
	Representative  string `json:"Representative"`
	Party           string `json:"Party"`
	House           string `json:"House"`
	TransactionType string `json:"Transaction"`
	TransactionDate string `json:"TransactionDate"`
	FilingDate      string `json:"ReportDate"`
	Range           string `json:"Range"`
	Amount          float64 `json:"Amount"`
}

// Collect returns []domain.LegislatorTrade.
func (c *CongressCollector) Collect(ctx context.Context) (interface{}, error) {
	result, err := c.resilience.Do(ctx, c.fetch)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *CongressCollector) fetch(ctx context.Context) (interface{}, error) {
	url := fmt.Sprintf("%s/beta/bulk/congresstrading", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building congress request", Cause: err}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "quiverquant", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &apperrors.AuthFailure{Source: "quiverquant", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "quiverquant", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "quiverquant", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "quiverquant", Cause: err}
	}

	var dtos []congressTradeDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, &apperrors.InputMalformed{Detail: "congress trading response", Cause: err}
	}

	trades := make([]domain.LegislatorTrade, 0, len(dtos))
	for _, dto := range dtos {
		ticker := normalize.NormalizeTicker(dto.Ticker)
		if !normalize.IsValidTicker(ticker) {
			continue
		}
		amountMin, amountMax := normalize.ParseAmountRange(dto.Range)
		if dto.Amount > 0 {
			amountMax = dto.Amount
		}

		trades = append(trades, domain.LegislatorTrade{
			Ticker:          ticker,
			Politician:      dto.Representative,
			Party:           normalize.NormalizeParty(dto.Party),
			Chamber:         normalize.NormalizeChamber(dto.House),
			TradeType:       normalize.NormalizeTradeType(dto.TransactionType),
			TransactionDate: dto.TransactionDate,
			FilingDate:      dto.FilingDate,
			AmountMin:       amountMin,
			AmountMax:       amountMax,
		})
	}

	return trades, nil
}

func retryAfterSeconds(resp *http.Response) int {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	var seconds int
	_, err := fmt.Sscanf(header, "%d", &seconds)
	if err != nil {
		return 0
	}
	return seconds
}
