package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/intellitrip-backend/internal/app"
	"github.com/heartmarshall/intellitrip-backend/internal/service/planner"
	"github.com/heartmarshall/intellitrip-backend/internal/service/trip"
)

func newPlanCmd() *cobra.Command {
	var (
		owner      string
		start, end string
		save       bool
		in         planner.PlanInput
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan an itinerary for a traveler (served from cache when possible)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if in.StartDate, err = parseDate("start", start); err != nil {
				return err
			}
			if in.EndDate, err = parseDate("end", end); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}

			return withOwner(cmd, owner, func(ctx context.Context, a *app.App) error {
				res, err := a.Planner.Plan(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "generator=%s cache_hit=%t fingerprint=%s\n",
					res.GeneratorTag, res.CacheHit, res.Fingerprint)

				if !save {
					return writeJSON(cmd.OutOrStdout(), res.Itinerary)
				}

				created, err := a.Trips.Create(ctx, trip.CreateInput{
					Destination:    in.Destination,
					StartDate:      in.StartDate,
					EndDate:        in.EndDate,
					Budget:         in.Budget,
					Travelers:      in.Travelers,
					Accommodation:  in.Accommodation,
					Transportation: in.Transportation,
					DNA:            res.DNA,
					Itinerary:      res.Itinerary,
					GeneratorTag:   res.GeneratorTag,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "trip=%s deduplicated=%t\n", created.Trip.ID, created.Deduplicated)
				return writeJSON(cmd.OutOrStdout(), created.Trip.Itinerary)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&owner, "owner", "", "traveler id (uuid)")
	f.StringVar(&in.Destination, "destination", "", "destination name")
	f.StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	f.StringVar(&end, "end", "", "last day (YYYY-MM-DD)")
	f.Float64Var(&in.Budget, "budget", 0, "total budget; 0 disables the cost cap")
	f.IntVar(&in.Travelers, "travelers", 1, "number of travelers")
	f.StringVar(&in.Accommodation, "accommodation", "", "accommodation preference")
	f.StringVar(&in.Transportation, "transportation", "", "transportation preference")
	f.BoolVar(&save, "save", false, "persist the plan as a trip")
	return cmd
}
