// Package domain holds the canonical record types shared by every
// collector, engine, and cache artifact in the confluence pipeline.
package domain

// LegislatorTrade is a single disclosed congressional transaction.
type LegislatorTrade struct {
	Ticker           string  `json:"ticker"`
	Politician       string  `json:"politician"`
	Party            string  `json:"party"`
	Chamber          string  `json:"chamber"`
	TradeType        string  `json:"trade_type"`
	TransactionDate  string  `json:"transaction_date"`
	FilingDate       string  `json:"filing_date"`
	AmountMin        float64 `json:"amount_min"`
	AmountMax        float64 `json:"amount_max"`
	ExcessReturnPct  float64 `json:"excess_return_pct,omitempty"`
}

// ArkTrade is a single day's change in an ARK ETF position.
type ArkTrade struct {
	Ticker     string  `json:"ticker"`
	ETF        string  `json:"etf"`
	TradeType  string  `json:"trade_type"`
	Date       string  `json:"date"`
	Shares     float64 `json:"shares"`
	WeightPct  float64 `json:"weight_pct,omitempty"`
	ChangeType string  `json:"change_type"`
}

// ArkHolding is a snapshot-in-time ARK position.
type ArkHolding struct {
	Ticker      string  `json:"ticker"`
	ETF         string  `json:"etf"`
	Shares      float64 `json:"shares"`
	WeightPct   float64 `json:"weight_pct"`
	MarketValue float64 `json:"market_value"`
	Date        string  `json:"date"`
}

// DarkPoolRecord is one ticker-day of off-exchange volume.
type DarkPoolRecord struct {
	Ticker      string  `json:"ticker"`
	Date        string  `json:"date"`
	ShortVolume float64 `json:"short_volume"`
	TotalVolume float64 `json:"total_volume"`
	DPI         float64 `json:"dpi"`
}

// DarkPoolEntry is the derived Z-score result for one ticker-day.
type DarkPoolEntry struct {
	Ticker      string  `json:"ticker"`
	Date        string  `json:"date"`
	DPI         float64 `json:"dpi"`
	ZScore      float64 `json:"z_score"`
	TotalVolume float64 `json:"total_volume"`
	IsAnomaly   bool    `json:"is_anomaly"`
}

// InstitutionFiling is one 13F filing by one fund for one quarter.
type InstitutionFiling struct {
	CIK        string              `json:"cik"`
	FundName   string              `json:"fund_name"`
	FilingDate string              `json:"filing_date"`
	Quarter    string              `json:"quarter"`
	TotalValue float64             `json:"total_value"`
	Holdings   []InstitutionHolding `json:"holdings"`
}

// InstitutionHolding is one line item within a 13F filing.
type InstitutionHolding struct {
	CUSIP        string  `json:"cusip"`
	Ticker       string  `json:"ticker,omitempty"`
	Issuer       string  `json:"issuer"`
	Value        float64 `json:"value"`
	Shares       float64 `json:"shares"`
	PctPortfolio float64 `json:"pct_portfolio"`
}

// InsiderTrade is one Form 4 transaction.
type InsiderTrade struct {
	Ticker          string  `json:"ticker"`
	InsiderName     string  `json:"insider_name"`
	Title           string  `json:"title"`
	TransactionType string  `json:"transaction_type"`
	TradeDate       string  `json:"trade_date"`
	Value           float64 `json:"value"`
}

// InsiderCluster is a group of distinct insiders buying within a window.
type InsiderCluster struct {
	Ticker       string   `json:"ticker"`
	InsiderCount int      `json:"insider_count"`
	TotalValue   float64  `json:"total_value"`
	Insiders     []string `json:"insiders"`
	FirstDate    string   `json:"first_date"`
	LastDate     string   `json:"last_date"`
}

// ShortInterestRow is one bi-monthly settlement record.
type ShortInterestRow struct {
	Ticker             string  `json:"ticker"`
	SettlementDate     string  `json:"settlement_date"`
	ShortInterest      float64 `json:"short_interest"`
	PriorShortInterest float64 `json:"prior_short_interest"`
	ChangePct          float64 `json:"change_pct"`
	DaysToCover        float64 `json:"days_to_cover"`
	AvgDailyVolume     float64 `json:"avg_daily_volume"`
	ShortPctFloat      float64 `json:"short_pct_float,omitempty"`
}

// SuperinvestorActivity is one manager/ticker activity row, quarterly.
type SuperinvestorActivity struct {
	Ticker       string  `json:"ticker"`
	Manager      string  `json:"manager"`
	ActivityType string  `json:"activity_type"`
	PortfolioPct float64 `json:"portfolio_pct"`
	ChangePct    float64 `json:"change_pct"`
	Quarter      string  `json:"quarter"`
	Source       string  `json:"source"`
}

// SuperinvestorHolding is a top holding reported for a tracked manager.
type SuperinvestorHolding struct {
	Manager      string  `json:"manager"`
	Ticker       string  `json:"ticker"`
	PortfolioPct float64 `json:"portfolio_pct"`
	Shares       float64 `json:"shares"`
	Quarter      string  `json:"quarter"`
}

// RawSignal is one source's ephemeral conviction read for one ticker,
// produced fresh on every ranking pass.
type RawSignal struct {
	Ticker      string                 `json:"ticker"`
	Source      string                 `json:"source"`
	Direction   string                 `json:"direction"`
	Date        string                 `json:"date"`
	Conviction  float64                `json:"conviction"`
	Description string                 `json:"description"`
	RawData     map[string]interface{} `json:"raw_data,omitempty"`
}

// SignalDetail is a RawSignal stripped of RawData, for embedding in the
// ranking artifact.
type SignalDetail struct {
	Ticker      string  `json:"ticker"`
	Source      string  `json:"source"`
	Direction   string  `json:"direction"`
	Date        string  `json:"date"`
	Conviction  float64 `json:"conviction"`
	Description string  `json:"description"`
}

// SmartMoneySignal is the V2 per-ticker aggregate across sources.
type SmartMoneySignal struct {
	Ticker            string         `json:"ticker"`
	Company           string         `json:"company"`
	Score             float64        `json:"score"`
	MaxConviction     float64        `json:"max_conviction"`
	SourceCount       int            `json:"source_count"`
	MultiSourceBonus  float64        `json:"multi_source_bonus"`
	SourceCap         float64        `json:"source_cap"`
	SignalDate        string         `json:"signal_date"`
	RecencyFactor     float64        `json:"recency_factor"`
	Sources           []string       `json:"sources"`
	SignalsBySource   map[string]RawSignal `json:"-"`
	Details           []SignalDetail `json:"signals"`
}

// SourceContribution is the V7 per-source accounting for one ticker.
type SourceContribution struct {
	Source         string  `json:"source"`
	Conviction     float64 `json:"conviction"`
	Weight         float64 `json:"weight"`
	Direction      string  `json:"direction"`
	Status         string  `json:"status"` // aligned | neutral | opposing
	EffectiveConv  float64 `json:"effective_conviction"`
	Contribution   float64 `json:"contribution"`
}

// V7Breakdown records every intermediate quantity the ranker computed,
// so the scoring decision can be audited or replayed.
type V7Breakdown struct {
	Dominant          string                `json:"dominant"`
	Votes             map[string]float64    `json:"votes"`
	Base              float64               `json:"base"`
	Extra             float64               `json:"extra"`
	DirectionBonus    float64               `json:"direction_bonus"`
	Penalty           float64               `json:"penalty"`
	Cap               float64               `json:"cap"`
	CapByAligned      float64               `json:"cap_by_aligned"`
	CapByTotal        float64               `json:"cap_by_total"`
	ConfluenceFactor  float64               `json:"confluence_multiplier"`
	AlignedActive     int                   `json:"aligned_active"`
	AlignedPassive    int                   `json:"aligned_passive"`
	TotalSources      int                   `json:"total_sources"`
	Contributions     []SourceContribution  `json:"contributions"`
}

// RankedTicker is the final V7 user-visible ranking row.
type RankedTicker struct {
	Ticker                 string             `json:"ticker"`
	Company                string             `json:"company"`
	Score                  float64            `json:"score"`
	Direction              string             `json:"direction"`
	Sources                []string           `json:"sources"`
	SourceCount            int                `json:"source_count"`
	SignalDate             string             `json:"signal_date"`
	PerSourceConvictions   map[string]float64 `json:"per_source_convictions"`
	MultiSourceBonusV2     float64            `json:"multi_source_bonus_display"`
	Breakdown              V7Breakdown        `json:"v7_breakdown"`
}

// RefreshLog is one append-only row recording the outcome of a pipeline
// step.
type RefreshLog struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Status       string `json:"status"` // success | failed
	RecordsCount int    `json:"records_count"`
	DurationMS   int64  `json:"duration_ms"`
	ErrorMsg     string `json:"error_msg,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// Enumerated constants shared across normalizers and engines.
const (
	PartyDemocrat   = "Democrat"
	PartyRepublican = "Republican"
	PartyIndependent = "Independent"

	ChamberHouse  = "House"
	ChamberSenate = "Senate"

	TradeBuy      = "Buy"
	TradeSell     = "Sell"
	TradeExchange = "Exchange"

	ChangeNewPosition = "NEW_POSITION"
	ChangeIncreased   = "INCREASED"
	ChangeDecreased   = "DECREASED"
	ChangeSoldOut     = "SOLD_OUT"

	DirectionBullish = "Bullish"
	DirectionBearish = "Bearish"

	RankDirectionBullish = "bullish"
	RankDirectionBearish = "bearish"
	RankDirectionNone    = "none"

	SourceCongress       = "congress"
	SourceArk            = "ark"
	SourceDarkpool       = "darkpool"
	SourceInstitution    = "institution"
	SourceInsider        = "insider"
	SourceSuperinvestor  = "superinvestor"
	SourceShortInterest  = "short_interest"

	ActivityBuy    = "Buy"
	ActivityAdd    = "Add"
	ActivitySell   = "Sell"
	ActivityReduce = "Reduce"

	ActivitySourceAggregate  = "aggregate"
	ActivitySourcePerManager = "per_manager"
)

// ActiveSources reflect a deliberate capital-allocation decision and
// contribute to the V7 direction bonus; NeutralSources never carry
// direction regardless of what the raw records imply.
var (
	ActiveSources = []string{
		SourceCongress, SourceInsider, SourceArk, SourceDarkpool, SourceInstitution,
	}
	NeutralSources = []string{
		SourceDarkpool, SourceInstitution, SourceShortInterest,
	}
	SourceWeights = map[string]float64{
		SourceCongress:      20,
		SourceInsider:       20,
		SourceArk:           15,
		SourceDarkpool:      15,
		SourceInstitution:   10,
		SourceSuperinvestor: 10,
		SourceShortInterest: 10,
	}
)
