package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aristath/smartmoney/internal/apperrors"
	"github.com/aristath/smartmoney/internal/domain"
	"github.com/aristath/smartmoney/internal/registry"
)

var validSources = []string{
	domain.SourceCongress,
	domain.SourceArk,
	domain.SourceDarkpool,
	domain.SourceInstitution,
	domain.SourceInsider,
	domain.SourceShortInterest,
	domain.SourceSuperinvestor,
}

// refreshCmd runs a single collector now. Exit codes: 0 ok, 2 fetch
// failure, 3 parse/malformed-input failure.
func refreshCmd(ctx context.Context, reg *registry.Registry) *cobra.Command {
	return &cobra.Command{
		Use:       "refresh <source>",
		Short:     "Run a single collector now",
		Args:      cobra.ExactArgs(1),
		ValidArgs: validSources,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			if !isValidSource(source) {
				return fmt.Errorf("unknown source %q", source)
			}

			n, err := reg.Pipeline.CollectSource(source)
			if err == nil {
				fmt.Printf("%s: ok, %d records\n", source, n)
				return nil
			}

			fmt.Printf("%s: failed: %v\n", source, err)
			switch err.(type) {
			case *apperrors.InputMalformed:
				return exitError(3)
			default:
				return exitError(2)
			}
		},
	}
}

func isValidSource(source string) bool {
	for _, s := range validSources {
		if s == source {
			return true
		}
	}
	return false
}
