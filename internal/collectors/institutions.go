package collectors

import (
	"context"
	"encoding/xml"
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

// InstitutionsCollector fetches 13F filings from SEC EDGAR. EDGAR's
// infoTable XML is the canonical source for 13F line items; no JSON
// feed exists for individual filings, so this is the one place
// encoding/xml earns its keep -- nothing in the example pack ships a
// general-purpose XML library.
type InstitutionsCollector struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	resilience *Resilience
	funds      []trackedFund
	log        zerolog.Logger
}

// trackedFund is one institution this collector polls for new 13Fs.
type trackedFund struct {
	CIK  string
	Name string
}

// trackedFunds is the nine-fund prestige roster that the conviction
// engine's prestige bonus recognises; no other managers are fetched.
var trackedFunds = []trackedFund{
	{CIK: "0001067983", Name: "Berkshire Hathaway Inc"},
	{CIK: "0001423053", Name: "Citadel Advisors LLC"},
	{CIK: "0001037389", Name: "Renaissance Technologies LLC"},
	{CIK: "0001350694", Name: "Bridgewater Associates LP"},
	{CIK: "0001478735", Name: "Two Sigma Investments LP"},
	{CIK: "0001432197", Name: "D E Shaw & Co Inc"},
	{CIK: "0001273087", Name: "Millennium Management LLC"},
	{CIK: "0001603466", Name: "Point72 Asset Management LP"},
	{CIK: "0001029160", Name: "Soros Fund Management LLC"},
}

func NewInstitutionsCollector(baseURL, userAgent string, log zerolog.Logger) *InstitutionsCollector {
	return &InstitutionsCollector{
		client:     &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		userAgent:  userAgent,
		resilience: NewResilience("institutions", 4, 8, log),
		funds:      trackedFunds,
		log:        log.With().Str("component", "collectors.Institutions").Logger(),
	}
}

func (c *InstitutionsCollector) Name() string { return domain.SourceInstitution }

// Collect returns []domain.InstitutionFiling, one per tracked fund that
// has a filing available.
func (c *InstitutionsCollector) Collect(ctx context.Context) (interface{}, error) {
	var filings []domain.InstitutionFiling

	for _, fund := range c.funds {
		result, err := c.resilience.Do(ctx, func(ctx context.Context) (interface{}, error) {
			return c.fetchFiling(ctx, fund)
		})
		if err != nil {
			var missing *apperrors.InputMissing
			if isInputMissing(err, &missing) {
				continue
			}
			return nil, err
		}
		filing, ok := result.(domain.InstitutionFiling)
		if ok {
			filings = append(filings, filing)
		}
	}

	return filings, nil
}

func isInputMissing(err error, target **apperrors.InputMissing) bool {
	if e, ok := err.(*apperrors.InputMissing); ok {
		*target = e
		return true
	}
	return false
}

func (c *InstitutionsCollector) fetchFiling(ctx context.Context, fund trackedFund) (domain.InstitutionFiling, error) {
	url := fmt.Sprintf("%s/cgi-bin/browse-edgar?action=getcompany&CIK=%s&type=13F-HR&dateb=&owner=include&count=1&output=atom", c.baseURL, fund.CIK)

	infoTableURL, filingDate, err := c.resolveLatestInfoTable(ctx, url)
	if err != nil {
		return domain.InstitutionFiling{}, err
	}

	body, err := c.fetchBody(ctx, infoTableURL)
	if err != nil {
		return domain.InstitutionFiling{}, err
	}

	var doc thirteenFDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return domain.InstitutionFiling{}, &apperrors.InputMalformed{Detail: "13F infoTable xml for " + fund.Name, Cause: err}
	}

	quarter := normalize.FilingDateToQuarter(filingDate)

	var holdings []domain.InstitutionHolding
	var totalValue float64
	for _, entry := range doc.InfoTable {
		ticker, _ := normalize.CUSIPToTicker(entry.CUSIP)
		value := normalizeLegacyValue(entry.Value)
		totalValue += value

		holdings = append(holdings, domain.InstitutionHolding{
			CUSIP:  entry.CUSIP,
			Ticker: ticker,
			Issuer: entry.NameOfIssuer,
			Value:  value,
			Shares: entry.SharesOrPrincipalAmount.SharesOrPrincipalAmount,
		})
	}

	for i := range holdings {
		if totalValue > 0 {
			holdings[i].PctPortfolio = holdings[i].Value / totalValue * 100
		}
	}

	return domain.InstitutionFiling{
		CIK:        fund.CIK,
		FundName:   fund.Name,
		FilingDate: filingDate,
		Quarter:    quarter,
		TotalValue: totalValue,
		Holdings:   holdings,
	}, nil
}

// normalizeLegacyValue compensates for a well-known EDGAR quirk: filings
// submitted under the pre-2023 13F schema report value in whole dollars
// while the modern schema reports thousands, so a legacy filing looks
// 1000x too large unless divided down. Values already in the modern
// range are left untouched.
func normalizeLegacyValue(reportedValue float64) float64 {
	if reportedValue > 1_000_000_000_000 {
		return reportedValue / 1000
	}
	return reportedValue
}

// resolveLatestInfoTable finds the most recent 13F-HR filing's
// information table document URL from EDGAR's Atom feed for one CIK.
// Treated minimally: callers get InputMissing when a fund has no 13F on
// file yet rather than failing the whole refresh.
func (c *InstitutionsCollector) resolveLatestInfoTable(ctx context.Context, feedURL string) (string, string, error) {
	body, err := c.fetchBody(ctx, feedURL)
	if err != nil {
		return "", "", err
	}

	var feed edgarAtomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return "", "", &apperrors.InputMalformed{Detail: "edgar atom feed", Cause: err}
	}
	if len(feed.Entries) == 0 {
		return "", "", &apperrors.InputMissing{Detail: "no 13F-HR filings found"}
	}

	entry := feed.Entries[0]
	accession := strings.TrimPrefix(entry.ID, "urn:tag:sec.gov,2008:accession-number=")
	accessionNoDashes := strings.ReplaceAll(accession, "-", "")
	infoTableURL := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/infotable.xml", c.baseURL, accessionNoDashes, accession)

	filingDate := entry.Updated
	if len(filingDate) >= 10 {
		filingDate = filingDate[:10]
	}

	return infoTableURL, filingDate, nil
}

func (c *InstitutionsCollector) fetchBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &apperrors.InputMalformed{Detail: "building edgar request", Cause: err}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "sec-edgar", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, &apperrors.AuthFailure{Source: "sec-edgar", Cause: fmt.Errorf("missing or rejected User-Agent")}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperrors.RateLimited{Source: "sec-edgar", RetryAfter: retryAfterSeconds(resp)}
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, &apperrors.InputMissing{Detail: "edgar resource not found: " + url}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &apperrors.FetchFailure{Source: "sec-edgar", Cause: fmt.Errorf("status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.FetchFailure{Source: "sec-edgar", Cause: err}
	}
	return data, nil
}

// thirteenFDocument mirrors the shape of a 13F-HR infoTable.xml.
type thirteenFDocument struct {
	XMLName  xml.Name         `xml:"informationTable"`
	InfoTable []infoTableEntry `xml:"infoTable"`
}

type infoTableEntry struct {
	NameOfIssuer            string  `xml:"nameOfIssuer"`
	CUSIP                   string  `xml:"cusip"`
	Value                   float64 `xml:"value"`
	SharesOrPrincipalAmount struct {
		SharesOrPrincipalAmount float64 `xml:"sshPrnamt"`
	} `xml:"shrsOrPrnAmt"`
}

type edgarAtomFeed struct {
	XMLName xml.Name        `xml:"feed"`
	Entries []edgarAtomEntry `xml:"entry"`
}

type edgarAtomEntry struct {
	ID      string `xml:"id"`
	Updated string `xml:"updated"`
}
