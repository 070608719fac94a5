package columnar

import "github.com/aristath/smartmoney/internal/domain"

func (s *Store) refreshCongressTrades() (int, error) {
	var trades []domain.LegislatorTrade
	s.cache.Read("congress_trades.json", &trades)

	rows := make([][]interface{}, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []interface{}{
			t.Ticker, t.Politician, t.Party, t.Chamber, t.TradeType,
			t.TransactionDate, t.FilingDate, t.AmountMin, t.AmountMax, t.ExcessReturnPct,
		})
	}

	const insertSQL = `INSERT INTO congress_trades
		(ticker, politician, party, chamber, trade_type, transaction_date, filing_date, amount_min, amount_max, excess_return_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "congress_trades", insertSQL, rows)
}

func (s *Store) refreshArkTrades() (int, error) {
	var trades []domain.ArkTrade
	s.cache.Read("ark_trades.json", &trades)

	rows := make([][]interface{}, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []interface{}{t.Ticker, t.ETF, t.TradeType, t.Date, t.Shares, t.WeightPct, t.ChangeType})
	}

	const insertSQL = `INSERT INTO ark_trades (ticker, etf, trade_type, date, shares, weight_pct, change_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "ark_trades", insertSQL, rows)
}

func (s *Store) refreshArkHoldings() (int, error) {
	var holdings []domain.ArkHolding
	s.cache.Read("ark_holdings.json", &holdings)

	rows := make([][]interface{}, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []interface{}{h.Ticker, h.ETF, h.Shares, h.WeightPct, h.MarketValue, h.Date})
	}

	const insertSQL = `INSERT INTO ark_holdings (ticker, etf, shares, weight_pct, market_value, date)
		VALUES (?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "ark_holdings", insertSQL, rows)
}

func (s *Store) refreshDarkpoolDays() (int, error) {
	var records []domain.DarkPoolRecord
	s.cache.Read("darkpool_days.json", &records)

	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, []interface{}{r.Ticker, r.Date, r.ShortVolume, r.TotalVolume, r.DPI})
	}

	const insertSQL = `INSERT INTO darkpool_days (ticker, date, short_volume, total_volume, dpi)
		VALUES (?, ?, ?, ?, ?)`
	return replaceTable(s.db, "darkpool_days", insertSQL, rows)
}

// refreshInstitutionFilings and refreshInstitutionHoldings both read
// the same artifact: filings hold the parent (fund-level) fields and
// holdings flattens each filing's nested line items, copying the
// parent's cik/fund_name/filing_date/quarter down onto every row.
func (s *Store) refreshInstitutionFilings() (int, error) {
	var filings []domain.InstitutionFiling
	s.cache.Read("institution_filings.json", &filings)

	rows := make([][]interface{}, 0, len(filings))
	for _, f := range filings {
		rows = append(rows, []interface{}{f.CIK, f.FundName, f.FilingDate, f.Quarter, f.TotalValue})
	}

	const insertSQL = `INSERT INTO institution_filings (cik, fund_name, filing_date, quarter, total_value)
		VALUES (?, ?, ?, ?, ?)`
	return replaceTable(s.db, "institution_filings", insertSQL, rows)
}

func (s *Store) refreshInstitutionHoldings() (int, error) {
	var filings []domain.InstitutionFiling
	s.cache.Read("institution_filings.json", &filings)

	var rows [][]interface{}
	for _, f := range filings {
		for _, h := range f.Holdings {
			rows = append(rows, []interface{}{
				f.CIK, f.FundName, f.FilingDate, f.Quarter,
				h.CUSIP, h.Ticker, h.Issuer, h.Value, h.Shares, h.PctPortfolio,
			})
		}
	}

	const insertSQL = `INSERT INTO institution_holdings
		(cik, fund_name, filing_date, quarter, cusip, ticker, issuer, value, shares, pct_portfolio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "institution_holdings", insertSQL, rows)
}

func (s *Store) refreshInsiderTrades() (int, error) {
	var trades []domain.InsiderTrade
	s.cache.Read("insider_trades.json", &trades)

	rows := make([][]interface{}, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []interface{}{t.Ticker, t.InsiderName, t.Title, t.TransactionType, t.TradeDate, t.Value})
	}

	const insertSQL = `INSERT INTO insider_trades (ticker, insider_name, title, transaction_type, trade_date, value)
		VALUES (?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "insider_trades", insertSQL, rows)
}

func (s *Store) refreshInsiderClusters() (int, error) {
	var clusters []domain.InsiderCluster
	s.cache.Read("insider_clusters.json", &clusters)

	rows := make([][]interface{}, 0, len(clusters))
	for _, c := range clusters {
		rows = append(rows, []interface{}{
			c.Ticker, c.InsiderCount, c.TotalValue, joinJSON(c.Insiders), c.FirstDate, c.LastDate,
		})
	}

	const insertSQL = `INSERT INTO insider_clusters (ticker, insider_count, total_value, insiders, first_date, last_date)
		VALUES (?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "insider_clusters", insertSQL, rows)
}

func (s *Store) refreshShortInterest() (int, error) {
	var rows2 []domain.ShortInterestRow
	s.cache.Read("short_interest.json", &rows2)

	rows := make([][]interface{}, 0, len(rows2))
	for _, r := range rows2 {
		rows = append(rows, []interface{}{
			r.Ticker, r.SettlementDate, r.ShortInterest, r.PriorShortInterest,
			r.ChangePct, r.DaysToCover, r.AvgDailyVolume, r.ShortPctFloat,
		})
	}

	const insertSQL = `INSERT INTO short_interest
		(ticker, settlement_date, short_interest, prior_short_interest, change_pct, days_to_cover, avg_daily_volume, short_pct_float)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "short_interest", insertSQL, rows)
}

func (s *Store) refreshSuperinvestorActivity() (int, error) {
	var activity []domain.SuperinvestorActivity
	s.cache.Read("superinvestor_activity.json", &activity)

	rows := make([][]interface{}, 0, len(activity))
	for _, a := range activity {
		rows = append(rows, []interface{}{a.Ticker, a.Manager, a.ActivityType, a.PortfolioPct, a.ChangePct, a.Quarter, a.Source})
	}

	const insertSQL = `INSERT INTO superinvestor_activity (ticker, manager, activity_type, portfolio_pct, change_pct, quarter, source)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "superinvestor_activity", insertSQL, rows)
}

func (s *Store) refreshSuperinvestorHoldings() (int, error) {
	var holdings []domain.SuperinvestorHolding
	s.cache.Read("superinvestor_holdings.json", &holdings)

	rows := make([][]interface{}, 0, len(holdings))
	for _, h := range holdings {
		rows = append(rows, []interface{}{h.Manager, h.Ticker, h.PortfolioPct, h.Shares, h.Quarter})
	}

	const insertSQL = `INSERT INTO superinvestor_holdings (manager, ticker, portfolio_pct, shares, quarter)
		VALUES (?, ?, ?, ?, ?)`
	return replaceTable(s.db, "superinvestor_holdings", insertSQL, rows)
}

func (s *Store) refreshRankingV2() (int, error) {
	var signals []domain.SmartMoneySignal
	s.cache.Read("ranking_v2.json", &signals)

	rows := make([][]interface{}, 0, len(signals))
	for _, sig := range signals {
		rows = append(rows, []interface{}{
			sig.Ticker, sig.Company, sig.Score, sig.MaxConviction, sig.SourceCount,
			sig.MultiSourceBonus, sig.SourceCap, sig.SignalDate, sig.RecencyFactor, joinJSON(sig.Sources),
		})
	}

	const insertSQL = `INSERT INTO ranking_v2
		(ticker, company, score, max_conviction, source_count, multi_source_bonus, source_cap, signal_date, recency_factor, sources)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "ranking_v2", insertSQL, rows)
}

func (s *Store) refreshRankingV3() (int, error) {
	var ranked []domain.RankedTicker
	s.cache.Read("ranking_v3.json", &ranked)

	rows := make([][]interface{}, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []interface{}{
			r.Ticker, r.Company, r.Score, r.Direction, r.SourceCount, r.SignalDate, joinJSON(r.Sources),
		})
	}

	const insertSQL = `INSERT INTO ranking_v3 (ticker, company, score, direction, source_count, signal_date, sources)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "ranking_v3", insertSQL, rows)
}

func (s *Store) refreshRefreshLog() (int, error) {
	var logs []domain.RefreshLog
	s.cache.Read("refresh_log.json", &logs)

	rows := make([][]interface{}, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []interface{}{l.ID, l.Source, l.Status, l.RecordsCount, l.DurationMS, l.ErrorMsg, l.Timestamp})
	}

	const insertSQL = `INSERT INTO refresh_log (id, source, status, records_count, duration_ms, error_msg, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	return replaceTable(s.db, "refresh_log", insertSQL, rows)
}
