package columnar

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/cache"
	"github.com/aristath/smartmoney/internal/database"
)

// Store projects cached JSON artifacts into SQLite tables queryable
// with ad-hoc SQL. It runs no refresh loop of its own: the periodic
// re-projection is registry.ColumnarJob, which calls RefreshAll on a
// fixed interval and rebuilds every table whether or not its artifact's
// mtime has moved; NeedsRefresh is not consulted by that job.
type Store struct {
	db    *database.DB
	cache *cache.Store
	log   zerolog.Logger

	// writeMu serializes refreshes: only one table rebuild runs at a
	// time, so concurrent Query calls never see a half-rebuilt table.
	writeMu sync.Mutex

	mu          sync.RWMutex
	lastCounts  map[string]int
	lastRefresh map[string]time.Time
}

// New prepares every registered table's schema and returns a Store
// ready to refresh and query.
func New(db *database.DB, cacheStore *cache.Store, log zerolog.Logger) (*Store, error) {
	s := &Store{
		db:          db,
		cache:       cacheStore,
		log:         log.With().Str("component", "columnar.Store").Logger(),
		lastCounts:  make(map[string]int),
		lastRefresh: make(map[string]time.Time),
	}

	for _, name := range tableNames() {
		if _, err := db.Exec(tableSpecs[name].DDL); err != nil {
			return nil, fmt.Errorf("columnar: creating table %s: %w", name, err)
		}
	}

	return s, nil
}

// TableExists reports whether name is a registered columnar table.
func (s *Store) TableExists(name string) bool {
	_, ok := tableSpecs[name]
	return ok
}

// RefreshAll rebuilds every table from its cached artifact, continuing
// past a single table's failure so one bad artifact never blocks the
// rest. It returns the first error encountered, if any, after every
// table has been attempted.
func (s *Store) RefreshAll() error {
	var firstErr error
	for _, name := range tableNames() {
		if err := s.RefreshTable(name); err != nil {
			s.log.Warn().Err(err).Str("table", name).Msg("refresh failed, keeping last-known rows")
			if firstErr == nil {
				firstErr = &apperrors.ColumnarRefreshFailure{Table: name, Cause: err}
			}
		}
	}
	return firstErr
}

// RefreshTable rebuilds one table from its backing artifact. On any
// failure the table's previous rows are left untouched and Status
// continues to report the last-known row count. If another refresh
// holds the write lock, it returns nil without rebuilding, and Status
// keeps reporting the last-known count.
func (s *Store) RefreshTable(name string) error {
	spec, ok := tableSpecs[name]
	if !ok {
		return fmt.Errorf("columnar: unknown table %q", name)
	}

	if !s.writeMu.TryLock() {
		s.log.Debug().Str("table", name).Msg("write lock busy, keeping last-known rows")
		return nil
	}
	defer s.writeMu.Unlock()

	count, err := s.refreshers()[name]()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.lastCounts[name] = count
	s.lastRefresh[name] = s.cache.Mtime(spec.Artifact)
	s.mu.Unlock()

	return nil
}

// Status returns the last-known row count for every table. A table
// whose refresh has never succeeded reports zero.
func (s *Store) Status() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.lastCounts))
	for _, name := range tableNames() {
		out[name] = s.lastCounts[name]
	}
	return out
}

// NeedsRefresh reports whether a table's backing artifact has a newer
// mtime than the table's last successful refresh.
func (s *Store) NeedsRefresh(name string) bool {
	spec, ok := tableSpecs[name]
	if !ok {
		return false
	}

	s.mu.RLock()
	last := s.lastRefresh[name]
	s.mu.RUnlock()

	mtime := s.cache.Mtime(spec.Artifact)
	if mtime.IsZero() {
		return false
	}
	return mtime.After(last)
}

// Query runs a read-only SQL statement and returns the result rows as
// column-name-keyed maps.
func (s *Store) Query(sqlStr string, args ...interface{}) ([]map[string]interface{}, error) {
	rows, err := s.db.Query(sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("columnar: query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// QueryMany runs several read-only statements in sequence and returns
// their result sets in the same order.
func (s *Store) QueryMany(statements []string) ([][]map[string]interface{}, error) {
	out := make([][]map[string]interface{}, 0, len(statements))
	for _, stmt := range statements {
		rows, err := s.Query(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, rows)
	}
	return out, nil
}

func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// refreshers maps each table name to the function that reloads it from
// its cached artifact.
func (s *Store) refreshers() map[string]func() (int, error) {
	return map[string]func() (int, error){
		"congress_trades":        s.refreshCongressTrades,
		"ark_trades":             s.refreshArkTrades,
		"ark_holdings":           s.refreshArkHoldings,
		"darkpool_days":          s.refreshDarkpoolDays,
		"institution_filings":    s.refreshInstitutionFilings,
		"institution_holdings":   s.refreshInstitutionHoldings,
		"insider_trades":         s.refreshInsiderTrades,
		"insider_clusters":       s.refreshInsiderClusters,
		"short_interest":         s.refreshShortInterest,
		"superinvestor_activity": s.refreshSuperinvestorActivity,
		"superinvestor_holdings": s.refreshSuperinvestorHoldings,
		"ranking_v2":             s.refreshRankingV2,
		"ranking_v3":             s.refreshRankingV3,
		"refresh_log":            s.refreshRefreshLog,
	}
}

// replaceTable deletes every row in name and bulk-inserts fresh ones
// within a single transaction, so a reader never observes a half-empty
// table mid-refresh.
func replaceTable(db *database.DB, name, insertSQL string, rows [][]interface{}) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", name)); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func joinJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func placeholders(n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = "?"
	}
	return strings.Join(ph, ", ")
}
