package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aristath/smartmoney/internal/registry"
)

// rankCmd re-runs V2+V7 from whatever is already cached. Always exits 0.
func rankCmd(reg *registry.Registry) *cobra.Command {
	var minScore float64

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Re-run V2+V7 ranking from cached inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ranked := reg.Pipeline.Rerank()

			bullish := color.New(color.FgGreen)
			bearish := color.New(color.FgRed)

			shown := 0
			for _, r := range ranked {
				if r.Score < minScore {
					continue
				}
				line := bullish
				if r.Direction == "bearish" {
					line = bearish
				}
				line.Printf("%-8s %6.1f  %-8s  %s\n", r.Ticker, r.Score, r.Direction, r.Company)
				shown++
			}
			fmt.Printf("%d of %d tickers at or above min-score %.1f\n", shown, len(ranked), minScore)
			return nil
		},
	}

	cmd.Flags().Float64Var(&minScore, "min-score", 0, "only print tickers scoring at or above this")
	return cmd
}
