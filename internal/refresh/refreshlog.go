package refresh

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/cache"
	"github.com/aristath/smartmoney/internal/domain"
)

// refreshLogArtifact is the columnar-facing snapshot: a full array the
// columnar store re-reads wholesale on every refresh_log refresh.
const refreshLogArtifact = "refresh_log.json"

// refreshLogJSONL is the append-only fallback: one JSON object per
// line, readable even when the columnar store or the snapshot artifact
// itself is unavailable. cache.Store only knows atomic whole-file
// writes, so this file is appended to directly.
const refreshLogJSONL = "refresh_log.jsonl"

// appendRefreshLogRows adds rows to both the refresh_log snapshot
// artifact (read by columnar.Store.refreshRefreshLog) and the flat
// jsonl file, so the log survives even if the columnar store can't be
// refreshed this pass.
func appendRefreshLogRows(store *cache.Store, log zerolog.Logger, rows []domain.RefreshLog) {
	var existing []domain.RefreshLog
	store.Read(refreshLogArtifact, &existing)
	existing = append(existing, rows...)
	if err := store.Write(refreshLogArtifact, existing); err != nil {
		log.Warn().Err(err).Msg("failed to write refresh_log snapshot")
	}

	if err := appendJSONL(store, rows); err != nil {
		log.Warn().Err(err).Msg("failed to append refresh_log.jsonl")
	}
}

// appendJSONL opens the jsonl artifact directly in the cache store's
// base directory and appends one line per row.
func appendJSONL(store *cache.Store, rows []domain.RefreshLog) error {
	path := store.Path(refreshLogJSONL)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
