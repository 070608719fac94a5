package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
)

const (
	shortInterestMinShares = 100_000.0
	shortInterestTopN      = 150
)

// ShortInterestCollector fetches FINRA's bi-monthly short-interest
// settlement data and keeps symbols of at most six letters with no
// +, = or ^ in them and at least shortInterestMinShares shares sold
// short, then the shortInterestTopN largest of those.
type ShortInterestCollector struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	resilience *Resilience
	log        zerolog.Logger
}

func NewShortInterestCollector(baseURL, apiKey string, log zerolog.Logger) *ShortInterestCollector {
	return &ShortInterestCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		resilience: NewResilience("shortinterest", 2, 4, log),
		log:        log.With().Str("component", "collectors.ShortInterest").Logger(),
	}
}

func (c *ShortInterestCollector) Name() string { return domain.SourceShortInterest }

type shortInterestDTO struct {
	Symbol             string  `json:"symbolCode"`
	SettlementDate     string  `json:"settlementDate"`
	CurrentShortPos    float64 `json:"currentShortPositionQuantity"`
	PreviousShortPos   float64 `json:"previousShortPositionQuantity"`
	DaysToCoverQty     float64 `json:"daysToCoverQuantity"`
	AvgDailyVolumeQty  float64 `json:"averageDailyVolumeQuantity"`
}

func (c *ShortInterestCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.resilience.Do(ctx, c.fetch)
}

func (c *ShortInterestCollector) fetch(ctx context.Context) (interface{}, error) {
	url := fmt.Sprintf("%s/data/group/otcMarket/name/consolidatedShortInterest", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building short interest request", Cause: err}
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "finra", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &apperrors.AuthFailure{Source: "finra", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "finra", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "finra", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "finra", Cause: err}
	}

	var dtos []shortInterestDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, &apperrors.InputMalformed{Detail: "short interest response", Cause: err}
	}

	rows := make([]domain.ShortInterestRow, 0, len(dtos))
	for _, dto := range dtos {
		ticker := normalize.NormalizeTicker(dto.Symbol)
		if !isEligibleShortInterestSymbol(ticker) {
			continue
		}
		if dto.CurrentShortPos < shortInterestMinShares {
			continue
		}

		changePct := 0.0
		if dto.PreviousShortPos > 0 {
			changePct = (dto.CurrentShortPos - dto.PreviousShortPos) / dto.PreviousShortPos * 100
		}

		rows = append(rows, domain.ShortInterestRow{
			Ticker:             ticker,
			SettlementDate:     dto.SettlementDate,
			ShortInterest:      dto.CurrentShortPos,
			PriorShortInterest: dto.PreviousShortPos,
			ChangePct:          changePct,
			DaysToCover:        dto.DaysToCoverQty,
			AvgDailyVolume:     dto.AvgDailyVolumeQty,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ShortInterest > rows[j].ShortInterest })
	if len(rows) > shortInterestTopN {
		rows = rows[:shortInterestTopN]
	}

	return rows, nil
}

// isEligibleShortInterestSymbol excludes FINRA's special-condition
// symbol suffixes (warrants, rights, when-issued, test issues) and
// anything longer than a standard ticker, which are usually
// non-tradeable administrative codes rather than real equity symbols.
func isEligibleShortInterestSymbol(symbol string) bool {
	if symbol == "" {
		return false
	}
	if len(symbol) > 6 {
		return false
	}
	if strings.ContainsAny(symbol, "+=^") {
		return false
	}
	return normalize.IsValidTicker(symbol)
}
