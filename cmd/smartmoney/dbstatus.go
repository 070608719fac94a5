package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/smartmoney/internal/registry"
)

// dbStatusCmd prints the columnar store's per-table row counts as JSON.
func dbStatusCmd(reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "db-status",
		Short: "Print columnar store status JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := reg.Columnar.Status()
			out, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

// dbRefreshCmd force-reloads every columnar table from its cached
// artifact, regardless of whether the artifact's mtime has moved.
func dbRefreshCmd(reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:   "db-refresh",
		Short: "Force-reload all columnar tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := reg.Columnar.RefreshAll(); err != nil {
				fmt.Printf("refresh completed with errors: %v\n", err)
				return nil
			}
			fmt.Println("refresh ok")
			return nil
		},
	}
}
