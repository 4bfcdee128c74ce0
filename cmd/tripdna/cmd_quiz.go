package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/intellitrip-backend/internal/app"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/service/dna"
)

func newQuizCmd() *cobra.Command {
	var (
		owner string
		in    dna.QuizInput
		pace  string
	)

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Create or retake a traveler's DNA quiz",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Pace = domain.PaceTier(pace)
			if err := in.Validate(); err != nil {
				return err
			}
			return withOwner(cmd, owner, func(ctx context.Context, a *app.App) error {
				p, err := a.DNA.InitializeFromQuiz(ctx, in)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&owner, "owner", "", "traveler id (uuid)")
	f.Float64Var(&in.Adventure, "adventure", 0.5, "adventure slider in [0,1]")
	f.Float64Var(&in.Culture, "culture", 0.5, "culture slider in [0,1]")
	f.Float64Var(&in.Foodie, "foodie", 0.5, "foodie slider in [0,1]")
	f.Float64Var(&in.Budget, "budget", 0.5, "budget slider in [0,1]")
	f.StringVar(&pace, "pace", string(domain.PaceModerate), "slow, moderate or fast")
	return cmd
}
