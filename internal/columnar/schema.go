// Package columnar projects the JSON artifacts the cache store holds
// into queryable SQLite tables, so callers can run ad-hoc SQL over
// smart-money history instead of scanning JSON on every query.
package columnar

import "sort"

// tableSpec describes one columnar table: which cache artifact feeds
// it and the DDL used to (re)create it.
type tableSpec struct {
	Artifact string
	DDL      string
}

var tableSpecs = map[string]tableSpec{
	"congress_trades": {
		Artifact: "congress_trades.json",
		DDL: `CREATE TABLE IF NOT EXISTS congress_trades (
			ticker TEXT, politician TEXT, party TEXT, chamber TEXT,
			trade_type TEXT, transaction_date TEXT, filing_date TEXT,
			amount_min REAL, amount_max REAL, excess_return_pct REAL
		)`,
	},
	"ark_trades": {
		Artifact: "ark_trades.json",
		DDL: `CREATE TABLE IF NOT EXISTS ark_trades (
			ticker TEXT, etf TEXT, trade_type TEXT, date TEXT,
			shares REAL, weight_pct REAL, change_type TEXT
		)`,
	},
	"ark_holdings": {
		Artifact: "ark_holdings.json",
		DDL: `CREATE TABLE IF NOT EXISTS ark_holdings (
			ticker TEXT, etf TEXT, shares REAL, weight_pct REAL,
			market_value REAL, date TEXT
		)`,
	},
	"darkpool_days": {
		Artifact: "darkpool_days.json",
		DDL: `CREATE TABLE IF NOT EXISTS darkpool_days (
			ticker TEXT, date TEXT, short_volume REAL, total_volume REAL, dpi REAL
		)`,
	},
	"institution_filings": {
		Artifact: "institution_filings.json",
		DDL: `CREATE TABLE IF NOT EXISTS institution_filings (
			cik TEXT, fund_name TEXT, filing_date TEXT, quarter TEXT, total_value REAL
		)`,
	},
	"institution_holdings": {
		Artifact: "institution_filings.json",
		DDL: `CREATE TABLE IF NOT EXISTS institution_holdings (
			cik TEXT, fund_name TEXT, filing_date TEXT, quarter TEXT,
			cusip TEXT, ticker TEXT, issuer TEXT, value REAL, shares REAL, pct_portfolio REAL
		)`,
	},
	"insider_trades": {
		Artifact: "insider_trades.json",
		DDL: `CREATE TABLE IF NOT EXISTS insider_trades (
			ticker TEXT, insider_name TEXT, title TEXT,
			transaction_type TEXT, trade_date TEXT, value REAL
		)`,
	},
	"insider_clusters": {
		Artifact: "insider_clusters.json",
		DDL: `CREATE TABLE IF NOT EXISTS insider_clusters (
			ticker TEXT, insider_count INTEGER, total_value REAL,
			insiders TEXT, first_date TEXT, last_date TEXT
		)`,
	},
	"short_interest": {
		Artifact: "short_interest.json",
		DDL: `CREATE TABLE IF NOT EXISTS short_interest (
			ticker TEXT, settlement_date TEXT, short_interest REAL,
			prior_short_interest REAL, change_pct REAL, days_to_cover REAL,
			avg_daily_volume REAL, short_pct_float REAL
		)`,
	},
	"superinvestor_activity": {
		Artifact: "superinvestor_activity.json",
		DDL: `CREATE TABLE IF NOT EXISTS superinvestor_activity (
			ticker TEXT, manager TEXT, activity_type TEXT,
			portfolio_pct REAL, change_pct REAL, quarter TEXT, source TEXT
		)`,
	},
	"superinvestor_holdings": {
		Artifact: "superinvestor_holdings.json",
		DDL: `CREATE TABLE IF NOT EXISTS superinvestor_holdings (
			manager TEXT, ticker TEXT, portfolio_pct REAL, shares REAL, quarter TEXT
		)`,
	},
	"ranking_v2": {
		Artifact: "ranking_v2.json",
		DDL: `CREATE TABLE IF NOT EXISTS ranking_v2 (
			ticker TEXT, company TEXT, score REAL, max_conviction REAL,
			source_count INTEGER, multi_source_bonus REAL, source_cap REAL,
			signal_date TEXT, recency_factor REAL, sources TEXT
		)`,
	},
	"ranking_v3": {
		Artifact: "ranking_v3.json",
		DDL: `CREATE TABLE IF NOT EXISTS ranking_v3 (
			ticker TEXT, company TEXT, score REAL, direction TEXT,
			source_count INTEGER, signal_date TEXT, sources TEXT
		)`,
	},
	"refresh_log": {
		Artifact: "refresh_log.json",
		DDL: `CREATE TABLE IF NOT EXISTS refresh_log (
			id TEXT, source TEXT, status TEXT, records_count INTEGER,
			duration_ms INTEGER, error_msg TEXT, timestamp TEXT
		)`,
	},
}

// tableNames returns every registered table name, used by RefreshAll
// and Status to iterate deterministically.
func tableNames() []string {
	names := make([]string, 0, len(tableSpecs))
	for name := range tableSpecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
