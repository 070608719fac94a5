// Command smartmoney is the operator CLI and background worker for the
// confluence engine: it can run one-off refreshes, re-rank from cached
// inputs, inspect the columnar store, or run continuously under the
// scheduler.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/smartmoney/internal/config"
	"github.com/aristath/smartmoney/internal/registry"
	"github.com/aristath/smartmoney/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := logger.New(logger.Config{Level: "info", Pretty: true})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log = logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.Pretty})

	reg, err := registry.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build registry")
	}
	defer reg.Close()

	ctx := context.Background()

	root := &cobra.Command{Use: "smartmoney", Short: "Smart-money confluence engine"}
	root.AddCommand(serveCmd(reg))
	root.AddCommand(refreshCmd(ctx, reg))
	root.AddCommand(refreshAllCmd(ctx, reg))
	root.AddCommand(rankCmd(reg))
	root.AddCommand(dbStatusCmd(reg))
	root.AddCommand(dbRefreshCmd(reg))

	exitCode := 0
	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		if code, ok := err.(exitError); ok {
			exitCode = int(code)
		} else {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 1
		}
	}
	return exitCode
}

// exitError carries a specific process exit code out of a cobra RunE
// without cobra printing its own generic error line.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit %d", int(e)) }
