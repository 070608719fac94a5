package collectors

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
)

// DarkpoolCollector fetches FINRA's daily off-exchange short-volume
// file. FINRA publishes this as a pipe-delimited fixed-layout text file
// rather than JSON or CSV, so it is parsed with bufio/strings rather
// than a structured decoder -- no library in the example pack handles
// this wire format.
type DarkpoolCollector struct {
	client     *http.Client
	baseURL    string
	resilience *Resilience
	log        zerolog.Logger
}

func NewDarkpoolCollector(baseURL string, log zerolog.Logger) *DarkpoolCollector {
	return &DarkpoolCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		resilience: NewResilience("darkpool", 1, 2, log),
		log:        log.With().Str("component", "collectors.Darkpool").Logger(),
	}
}

func (c *DarkpoolCollector) Name() string { return domain.SourceDarkpool }

// Collect returns []domain.DarkPoolRecord for the most recent trading
// day available.
func (c *DarkpoolCollector) Collect(ctx context.Context) (interface{}, error) {
	return c.resilience.Do(ctx, c.fetch)
}

func (c *DarkpoolCollector) fetch(ctx context.Context) (interface{}, error) {
	date := time.Now().UTC().Format("20060102")
	url := fmt.Sprintf("%s/CNMSshvol%s.txt", c.baseURL, date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building darkpool request", Cause: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "finra", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "finra", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, &apperrors.InputMissing{Detail: "darkpool file not yet published for " + date}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "finra", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	records, err := ParseDarkpoolFile(resp.Body, date)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseDarkpoolFile parses FINRA's pipe-delimited short-volume layout:
//
//	Date|Symbol|ShortVolume|ShortExemptVolume|TotalVolume|Market
//
// The header row and any trailing blank line are skipped.
func ParseDarkpoolFile(r io.Reader, date string) ([]domain.DarkPoolRecord, error) {
	scanner := bufio.NewScanner(r)
	var records []domain.DarkPoolRecord

	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if strings.HasPrefix(strings.ToLower(line), "date|") {
				continue
			}
		}

		fields := strings.Split(line, "|")
		if len(fields) < 5 {
			continue
		}

		ticker := normalize.NormalizeTicker(fields[1])
		if !normalize.IsValidTicker(ticker) {
			continue
		}

		shortVol := parseFloat(fields[2])
		totalVol := parseFloat(fields[4])
		if totalVol <= 0 {
			continue
		}

		records = append(records, domain.DarkPoolRecord{
			Ticker:      ticker,
			Date:        formatDarkpoolDate(fields[0], date),
			ShortVolume: shortVol,
			TotalVolume: totalVol,
			DPI:         normalize.DPI(shortVol, totalVol),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, &apperrors.InputMalformed{Detail: "darkpool file scan", Cause: err}
	}
	return records, nil
}

func formatDarkpoolDate(raw, fallback string) string {
	digits := raw
	if len(digits) != 8 {
		digits = fallback
	}
	if len(digits) != 8 {
		return fallback
	}
	return digits[0:4] + "-" + digits[4:6] + "-" + digits[6:8]
}

