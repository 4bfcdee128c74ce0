package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/intellitrip-backend/internal/app"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear a traveler's itinerary cache",
	}
	cmd.AddCommand(newCacheStatsCmd(), newCacheClearCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show live cache entries, destinations and total accesses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwner(cmd, owner, func(ctx context.Context, a *app.App) error {
				s, err := a.Cache.Stats(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "entries=%d destinations=%d total_access=%d ttl=%s\n",
					s.Entries, s.Destinations, s.TotalAccess, a.Cache.TTL())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "traveler id (uuid)")
	return cmd
}

func newCacheClearCmd() *cobra.Command {
	var owner, destination string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached itineraries, optionally for one destination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOwner(cmd, owner, func(ctx context.Context, a *app.App) error {
				n, err := a.Cache.EvictAll(ctx, destination)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d entries\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "traveler id (uuid)")
	cmd.Flags().StringVar(&destination, "destination", "", "only clear this destination")
	return cmd
}
