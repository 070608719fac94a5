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

// SuperinvestorsCollector fetches WhaleWisdom's tracked-manager activity
// feed, both the cross-manager aggregate view and the per-manager
// detail view. Both are kept, undeduplicated: the aggregate answers "is
// the crowd buying this" while per-manager answers "which manager", and
// collapsing them would throw away the latter.
type SuperinvestorsCollector struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	resilience *Resilience
	log        zerolog.Logger
}

func NewSuperinvestorsCollector(baseURL, apiKey string, log zerolog.Logger) *SuperinvestorsCollector {
	return &SuperinvestorsCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		resilience: NewResilience("superinvestors", 2, 4, log),
		log:        log.With().Str("component", "collectors.Superinvestors").Logger(),
	}
}

func (c *SuperinvestorsCollector) Name() string { return domain.SourceSuperinvestor }

type superinvestorDTO struct {
	Ticker       string  `json:"ticker"`
	Manager      string  `json:"manager_name"`
	ActivityType string  `json:"activity"`
	PortfolioPct float64 `json:"portfolio_percent"`
	ChangePct    float64 `json:"change_percent"`
	Quarter      string  `json:"quarter"`
	Aggregate    bool    `json:"is_aggregate"`
}

func (c *SuperinvestorsCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.resilience.Do(ctx, c.fetch)
}

func (c *SuperinvestorsCollector) fetch(ctx context.Context) (interface{}, error) {
	url := fmt.Sprintf("%s/shell/command.php?api=true&cmd=activity", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building superinvestor request", Cause: err}
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "whalewisdom", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &apperrors.AuthFailure{Source: "whalewisdom", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "whalewisdom", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "whalewisdom", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "whalewisdom", Cause: err}
	}

	var dtos []superinvestorDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, &apperrors.InputMalformed{Detail: "superinvestor activity response", Cause: err}
	}

	activities := make([]domain.SuperinvestorActivity, 0, len(dtos))
	for _, dto := range dtos {
		ticker := normalize.NormalizeTicker(dto.Ticker)
		if !normalize.IsValidTicker(ticker) {
			continue
		}

		source := domain.ActivitySourcePerManager
		if dto.Aggregate {
			source = domain.ActivitySourceAggregate
		}

		activities = append(activities, domain.SuperinvestorActivity{
			Ticker:       ticker,
			Manager:      dto.Manager,
			ActivityType: normalizeActivityType(dto.ActivityType),
			PortfolioPct: dto.PortfolioPct,
			ChangePct:    dto.ChangePct,
			Quarter:      dto.Quarter,
			Source:       source,
		})
	}

	return activities, nil
}

func normalizeActivityType(s string) string {
	switch s {
	case "buy", "Buy", "BUY":
		return domain.ActivityBuy
	case "add", "Add", "ADD":
		return domain.ActivityAdd
	case "sell", "Sell", "SELL":
		return domain.ActivitySell
	case "reduce", "Reduce", "REDUCE":
		return domain.ActivityReduce
	default:
		return s
	}
}
