// Package registry builds every shared dependency once at startup and
// hands out explicit references -- no DI container, mirroring the
// teacher's own main()-does-the-wiring style.
package registry

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/smartmoney/internal/cache"
	"github.com/aristath/smartmoney/internal/collectors"
	"github.com/aristath/smartmoney/internal/columnar"
	"github.com/aristath/smartmoney/internal/config"
	"github.com/aristath/smartmoney/internal/database"
	"github.com/aristath/smartmoney/internal/refresh"
)

// Default upstream base URLs for each collector; each collector appends
// its own endpoint path to the value it is given. These are not
// configurable per the spec's env var table -- only credentials and
// paths are -- so they live here as the one place a future re-pointing
// would touch.
const (
	quiverQuantBaseURL  = "https://api.quiverquant.com"
	arkBaseURL          = "https://arkfunds.io"
	finraDarkpoolURL    = "https://api.finra.org/data/group/otcMarket/name/darkPools"
	finraShortInterestURL = "https://api.finra.org"
	secEdgarBaseURL     = "https://www.sec.gov"
	secEdgarInsidersURL = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&type=4"
	whaleWisdomBaseURL  = "https://whalewisdom.com"
)

// Registry owns every long-lived dependency: the cache store, the
// columnar query layer, the database connection, and one collector per
// source. It is constructed once in cmd/smartmoney/root.go and threaded
// explicitly into the pipeline and CLI commands.
type Registry struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *database.DB
	Cache    *cache.Store
	Columnar *columnar.Store
	Pipeline *refresh.Pipeline
}

// New wires every component from cfg. The caller is responsible for
// calling Close when done.
func New(cfg *config.Config, log zerolog.Logger) (*Registry, error) {
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("registry: opening database: %w", err)
	}

	cacheDir := filepath.Join(cfg.DataDir, "cache")
	cacheStore, err := cache.New(cacheDir, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: opening cache store: %w", err)
	}

	columnarStore, err := columnar.New(db, cacheStore, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("registry: opening columnar store: %w", err)
	}

	pipeline := &refresh.Pipeline{
		Congress:       collectors.NewCongressCollector(quiverQuantBaseURL, cfg.QuiverQuantAPIKey, log),
		Ark:            collectors.NewArkCollector(arkBaseURL, log),
		Darkpool:       collectors.NewDarkpoolCollector(finraDarkpoolURL, log),
		Institutions:   collectors.NewInstitutionsCollector(secEdgarBaseURL, cfg.SECUserAgent, log),
		Insiders:       collectors.NewInsidersCollector(secEdgarInsidersURL, log),
		ShortInterest:  collectors.NewShortInterestCollector(finraShortInterestURL, cfg.FinraAPIKey, log),
		Superinvestors: collectors.NewSuperinvestorsCollector(whaleWisdomBaseURL, cfg.WhaleWisdomAPIKey, log),
		Cache:          cacheStore,
		Columnar:       columnarStore,
		Log:            log.With().Str("component", "refresh.Pipeline").Logger(),
	}

	return &Registry{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Cache:    cacheStore,
		Columnar: columnarStore,
		Pipeline: pipeline,
	}, nil
}

// Close releases the database connection.
func (r *Registry) Close() error {
	return r.DB.Close()
}
