// Package refresh orchestrates one end-to-end pass of the confluence
// engine: fan out to every collector, derive dark-pool anomalies, score
// conviction, rank confluence, and persist the results.
package refresh

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/cache"
	"github.com/aristath/smartmoney/internal/collectors"
	"github.com/aristath/smartmoney/internal/columnar"
	"github.com/aristath/smartmoney/internal/confluence"
	"github.com/aristath/smartmoney/internal/conviction"
	"github.com/aristath/smartmoney/internal/darkpool"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/normalize"
	"github.com/aristath/smartmoney/internal/v1check"
)

// darkpoolHistoryDays bounds how much dark-pool history accumulates in
// the cache artifact; the detector only ever looks at the trailing 30
// days, so this leaves comfortable room for the minimum-history check.
const darkpoolHistoryDays = 120

// Pipeline wires every registered collector to the cache, columnar
// store, and the conviction/confluence engines.
type Pipeline struct {
	Congress       *collectors.CongressCollector
	Ark            *collectors.ArkCollector
	Darkpool       *collectors.DarkpoolCollector
	Institutions   *collectors.InstitutionsCollector
	Insiders       *collectors.InsidersCollector
	ShortInterest  *collectors.ShortInterestCollector
	Superinvestors *collectors.SuperinvestorsCollector

	Cache    *cache.Store
	Columnar *columnar.Store
	Log      zerolog.Logger
}

// sourceOutcome records one collector's run, independent of the others.
type sourceOutcome struct {
	Source  string
	Records int
	Err     error
	Elapsed time.Duration
}

// Result summarizes one pipeline pass for the CLI and the refresh log.
type Result struct {
	Outcomes    []sourceOutcome
	RankedCount int
	Partial     bool
}

// Run executes one full pass: collectors, C5, C6, C7, and a best-effort
// columnar refresh, logging a RefreshLog row per step.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	outcomes := p.runCollectors(ctx)

	v3 := p.Rerank()

	p.runV1Check(v3)

	if err := p.Columnar.RefreshAll(); err != nil {
		p.Log.Warn().Err(err).Msg("columnar refresh had failures")
	}

	result := &Result{Outcomes: outcomes, RankedCount: len(v3)}
	for _, o := range outcomes {
		if o.Err != nil {
			result.Partial = true
		}
	}

	p.appendRefreshLog(outcomes, result.RankedCount)

	return result, nil
}

// Rerank recomputes V2 and V7 from whatever is already cached, without
// touching any collector. It powers the CLI's "rank" command, which
// operators use to re-score after hand-editing an artifact or tuning
// the ranking weights without waiting on a full refresh.
func (p *Pipeline) Rerank() []domain.RankedTicker {
	darkpoolHistory := p.loadDarkpoolHistory()
	entries := p.runDarkpoolDetector(darkpoolHistory)

	signals, companyNames := p.loadRawSignals(entries)

	v2 := p.runConvictionEngine(signals, companyNames)
	p.Cache.Write("ranking_v2.json", v2)

	signalsByTicker := make(map[string]map[string]domain.RawSignal, len(v2))
	for _, sig := range v2 {
		signalsByTicker[sig.Ticker] = sig.SignalsBySource
	}

	v3 := confluence.RankAll(signalsByTicker, companyNames)
	p.Cache.Write("ranking_v3.json", v3)

	return v3
}

// runCollectors fans out to every registered source concurrently; each
// source is independently fallible and a failure never blocks the rest.
func (p *Pipeline) runCollectors(ctx context.Context) []sourceOutcome {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []sourceOutcome
	)

	record := func(name string, records int, err error, elapsed time.Duration) {
		mu.Lock()
		outcomes = append(outcomes, sourceOutcome{Source: name, Records: records, Err: err, Elapsed: elapsed})
		mu.Unlock()
	}

	run := func(name string, fn func() (int, error)) {
		defer wg.Done()
		start := time.Now()
		n, err := fn()
		if err != nil {
			p.Log.Warn().Err(err).Str("source", name).Msg("collector failed")
		}
		record(name, n, err, time.Since(start))
	}

	wg.Add(7)
	go run(domain.SourceCongress, p.collectCongress)
	go run(domain.SourceArk, p.collectArk)
	go run(domain.SourceDarkpool, p.collectDarkpool)
	go run(domain.SourceInstitution, p.collectInstitutions)
	go run(domain.SourceInsider, p.collectInsiders)
	go run(domain.SourceShortInterest, p.collectShortInterest)
	go run(domain.SourceSuperinvestor, p.collectSuperinvestors)
	wg.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Source < outcomes[j].Source })
	return outcomes
}

// CollectSource runs exactly one registered collector and persists its
// artifact, for the CLI's single-source refresh command. An unknown
// source name is a caller bug, not a runtime condition, so it panics.
func (p *Pipeline) CollectSource(source string) (int, error) {
	switch source {
	case domain.SourceCongress:
		return p.collectCongress()
	case domain.SourceArk:
		return p.collectArk()
	case domain.SourceDarkpool:
		return p.collectDarkpool()
	case domain.SourceInstitution:
		return p.collectInstitutions()
	case domain.SourceInsider:
		return p.collectInsiders()
	case domain.SourceShortInterest:
		return p.collectShortInterest()
	case domain.SourceSuperinvestor:
		return p.collectSuperinvestors()
	default:
		panic("refresh: unknown source " + source)
	}
}

func (p *Pipeline) collectCongress() (int, error) {
	result, err := p.Congress.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	trades, _ := result.([]domain.LegislatorTrade)
	p.Cache.Write("congress_trades.json", trades)
	return len(trades), nil
}

func (p *Pipeline) collectArk() (int, error) {
	result, err := p.Ark.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	arkResult, _ := result.(collectors.ArkResult)
	p.Cache.Write("ark_holdings.json", arkResult.Holdings)
	p.Cache.Write("ark_trades.json", arkResult.Trades)
	return len(arkResult.Trades), nil
}

func (p *Pipeline) collectDarkpool() (int, error) {
	result, err := p.Darkpool.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	today, _ := result.([]domain.DarkPoolRecord)
	merged := mergeDarkpoolHistory(p.loadDarkpoolHistory(), today)
	p.Cache.Write("darkpool_days.json", merged)
	return len(today), nil
}

func (p *Pipeline) collectInstitutions() (int, error) {
	result, err := p.Institutions.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	filings, _ := result.([]domain.InstitutionFiling)
	p.Cache.Write("institution_filings.json", filings)
	return len(filings), nil
}

func (p *Pipeline) collectInsiders() (int, error) {
	result, err := p.Insiders.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	insidersResult, _ := result.(collectors.InsidersResult)
	p.Cache.Write("insider_trades.json", insidersResult.Trades)
	p.Cache.Write("insider_clusters.json", insidersResult.Clusters)
	return len(insidersResult.Trades), nil
}

func (p *Pipeline) collectShortInterest() (int, error) {
	result, err := p.ShortInterest.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	rows, _ := result.([]domain.ShortInterestRow)
	p.Cache.Write("short_interest.json", rows)
	return len(rows), nil
}

func (p *Pipeline) collectSuperinvestors() (int, error) {
	result, err := p.Superinvestors.Collect(context.Background())
	if err != nil {
		return 0, err
	}
	activity, _ := result.([]domain.SuperinvestorActivity)
	p.Cache.Write("superinvestor_activity.json", activity)
	return len(activity), nil
}

// loadDarkpoolHistory reads the accumulated dark-pool time series
// artifact, returning an empty slice on a cold cache.
func (p *Pipeline) loadDarkpoolHistory() []domain.DarkPoolRecord {
	var history []domain.DarkPoolRecord
	p.Cache.Read("darkpool_days.json", &history)
	return history
}

// mergeDarkpoolHistory folds today's records into the running history,
// replacing any existing ticker/date pair, then trims to the retention
// window oldest-first so the artifact does not grow unbounded.
func mergeDarkpoolHistory(history, today []domain.DarkPoolRecord) []domain.DarkPoolRecord {
	byKey := make(map[string]domain.DarkPoolRecord, len(history)+len(today))
	for _, r := range history {
		byKey[r.Ticker+"|"+r.Date] = r
	}
	for _, r := range today {
		byKey[r.Ticker+"|"+r.Date] = r
	}

	merged := make([]domain.DarkPoolRecord, 0, len(byKey))
	for _, r := range byKey {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Ticker != merged[j].Ticker {
			return merged[i].Ticker < merged[j].Ticker
		}
		return merged[i].Date < merged[j].Date
	})

	byTicker := make(map[string][]domain.DarkPoolRecord)
	for _, r := range merged {
		byTicker[r.Ticker] = append(byTicker[r.Ticker], r)
	}

	trimmed := make([]domain.DarkPoolRecord, 0, len(merged))
	for _, records := range byTicker {
		if len(records) > darkpoolHistoryDays {
			records = records[len(records)-darkpoolHistoryDays:]
		}
		trimmed = append(trimmed, records...)
	}
	return trimmed
}

// runDarkpoolDetector groups the history by ticker and runs C5 over
// each series, returning one entry per ticker for its latest day
// (anomalous or not) so C6 can still score a high z-score day that fell
// short of the anomaly gate on volume or recency alone.
func (p *Pipeline) runDarkpoolDetector(history []domain.DarkPoolRecord) []domain.DarkPoolEntry {
	byTicker := make(map[string][]domain.DarkPoolRecord)
	for _, r := range history {
		byTicker[r.Ticker] = append(byTicker[r.Ticker], r)
	}
	return darkpool.DetectAll(byTicker, time.Now().UTC())
}

// loadRawSignals reads every cached artifact and every freshly-detected
// dark-pool entry, scores each with the conviction engine, and groups
// the resulting signals by ticker. It also derives a best-effort
// company name per ticker from 13F issuer names, the only source that
// carries one.
func (p *Pipeline) loadRawSignals(entries []domain.DarkPoolEntry) (map[string][]domain.RawSignal, map[string]string) {
	asOf := time.Now().UTC()
	signals := make(map[string][]domain.RawSignal)
	companyNames := make(map[string]string)

	add := func(sig domain.RawSignal) {
		signals[sig.Ticker] = append(signals[sig.Ticker], sig)
	}

	var congressTrades []domain.LegislatorTrade
	p.Cache.Read("congress_trades.json", &congressTrades)
	for _, group := range groupByTicker(congressTrades, func(t domain.LegislatorTrade) string { return t.Ticker }) {
		if sig, ok := conviction.Congress(group, asOf); ok {
			add(sig)
		}
	}

	var arkTrades []domain.ArkTrade
	p.Cache.Read("ark_trades.json", &arkTrades)
	for _, group := range groupByTicker(arkTrades, func(t domain.ArkTrade) string { return t.Ticker }) {
		if sig, ok := conviction.Ark(group, asOf); ok {
			add(sig)
		}
	}

	for _, e := range entries {
		if sig, ok := conviction.Darkpool(e, asOf); ok {
			add(sig)
		}
	}

	var filings []domain.InstitutionFiling
	p.Cache.Read("institution_filings.json", &filings)
	institutionEvents := make(map[string][]conviction.InstitutionEvent)
	for _, f := range filings {
		for _, h := range f.Holdings {
			ticker := normalize.NormalizeTicker(h.Ticker)
			if ticker == "" {
				continue
			}
			institutionEvents[ticker] = append(institutionEvents[ticker], conviction.InstitutionEvent{
				FundName:   f.FundName,
				Holding:    h,
				FilingDate: f.FilingDate,
			})
			if h.Issuer != "" {
				if _, exists := companyNames[ticker]; !exists {
					companyNames[ticker] = h.Issuer
				}
			}
		}
	}
	for _, events := range institutionEvents {
		if sig, ok := conviction.Institution(events, asOf); ok {
			add(sig)
		}
	}

	var insiderTrades []domain.InsiderTrade
	p.Cache.Read("insider_trades.json", &insiderTrades)
	for _, group := range groupByTicker(insiderTrades, func(t domain.InsiderTrade) string { return t.Ticker }) {
		if sig, ok := conviction.Insider(group, asOf); ok {
			add(sig)
		}
	}

	return signals, companyNames
}

// groupByTicker partitions records by the ticker extract returns, so
// each source's per-ticker conviction rule sees every event for a
// ticker at once instead of one event at a time.
func groupByTicker[T any](records []T, extract func(T) string) map[string][]T {
	out := make(map[string][]T)
	for _, r := range records {
		ticker := extract(r)
		out[ticker] = append(out[ticker], r)
	}
	return out
}

// runConvictionEngine aggregates every ticker's raw signals into the
// V2 per-ticker view, sorted by (-score, -source_count, ticker).
func (p *Pipeline) runConvictionEngine(signals map[string][]domain.RawSignal, companyNames map[string]string) []domain.SmartMoneySignal {
	out := make([]domain.SmartMoneySignal, 0, len(signals))
	for ticker, sigs := range signals {
		company := companyNames[ticker]
		if company == "" {
			company = ticker
		}
		out = append(out, conviction.Aggregate(ticker, company, sigs))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].SourceCount != out[j].SourceCount {
			return out[i].SourceCount > out[j].SourceCount
		}
		return out[i].Ticker < out[j].Ticker
	})
	return out
}

// runV1Check re-derives the legacy per-ticker confidence score from the
// latest artifacts and logs a warning when it disagrees with V7's top
// pick. It never influences the ranking artifacts themselves.
func (p *Pipeline) runV1Check(v3 []domain.RankedTicker) {
	if len(v3) == 0 {
		return
	}

	var congressTrades []domain.LegislatorTrade
	p.Cache.Read("congress_trades.json", &congressTrades)
	congressDates := latestDateByTicker(congressTrades, func(t domain.LegislatorTrade) (string, string) {
		return t.Ticker, t.TransactionDate
	})

	var arkTrades []domain.ArkTrade
	p.Cache.Read("ark_trades.json", &arkTrades)
	arkDates := latestDateByTicker(arkTrades, func(t domain.ArkTrade) (string, string) {
		return t.Ticker, t.Date
	})

	var darkpoolHistory []domain.DarkPoolRecord
	p.Cache.Read("darkpool_days.json", &darkpoolHistory)
	darkpoolDates := latestDateByTicker(darkpoolHistory, func(r domain.DarkPoolRecord) (string, string) {
		return r.Ticker, r.Date
	})

	topPick, ok := v1check.TopPick(congressDates, arkDates, darkpoolDates, time.Now().UTC())
	if !ok {
		return
	}

	if topPick != v3[0].Ticker {
		p.Log.Warn().
			Str("v1_top_pick", topPick).
			Str("v7_top_pick", v3[0].Ticker).
			Msg("v1 legacy formula disagrees with v7 ranking")
	}
}

// latestDateByTicker keeps the most recent date string per ticker from
// a slice of records, using extract to pull out the (ticker, date) pair.
func latestDateByTicker[T any](records []T, extract func(T) (string, string)) map[string]string {
	out := make(map[string]string)
	for _, r := range records {
		ticker, date := extract(r)
		if date > out[ticker] {
			out[ticker] = date
		}
	}
	return out
}

// appendRefreshLog records one RefreshLog row per collected source plus
// an overall row, writing both the columnar snapshot artifact and the
// append-only jsonl artifact so the log survives a columnar outage.
func (p *Pipeline) appendRefreshLog(outcomes []sourceOutcome, rankedCount int) {
	now := time.Now().UTC().Format(time.RFC3339)
	rows := make([]domain.RefreshLog, 0, len(outcomes)+1)

	for _, o := range outcomes {
		status := "success"
		errMsg := ""
		if o.Err != nil {
			status = "failed"
			errMsg = o.Err.Error()
		}
		rows = append(rows, domain.RefreshLog{
			ID:           uuid.NewString(),
			Source:       o.Source,
			Status:       status,
			RecordsCount: o.Records,
			DurationMS:   o.Elapsed.Milliseconds(),
			ErrorMsg:     errMsg,
			Timestamp:    now,
		})
	}

	rows = append(rows, domain.RefreshLog{
		ID:           uuid.NewString(),
		Source:       "ranker",
		Status:       "success",
		RecordsCount: rankedCount,
		Timestamp:    now,
	})

	appendRefreshLogRows(p.Cache, p.Log, rows)
}
