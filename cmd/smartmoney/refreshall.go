package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/smartmoney/internal/registry"
)

// refreshAllCmd runs the full collector-to-ranking pipeline once. Exit
// codes: 0 ok, 1 one or more sources failed.
func refreshAllCmd(ctx context.Context, reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-all",
		Short: "Run the full pipeline: collect, score, rank, persist",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := reg.Pipeline.Run(ctx)
			if err != nil {
				return exitError(1)
			}

			for _, o := range result.Outcomes {
				status := "ok"
				if o.Err != nil {
					status = o.Err.Error()
				}
				fmt.Printf("  %-14s %s\n", o.Source, status)
			}
			fmt.Printf("ranked %d tickers\n", result.RankedCount)

			if result.Partial {
				return exitError(1)
			}
			return nil
		},
	}
}
