package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/intellitrip-backend/internal/app"
	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

// buildApp is replaced in tests.
var buildApp = func(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg, app.NewLogger(cfg.Log))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripdna",
		Short:         "Travel DNA engine operator CLI",
		SilenceUsage:  true,
	}
	root.AddCommand(
		newMigrateCmd(),
		newQuizCmd(),
		newPlanCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
		},
	}
}

// withOwner wires the application and scopes ctx to the --owner flag.
func withOwner(cmd *cobra.Command, owner string, fn func(ctx context.Context, a *app.App) error) error {
	ownerID, err := parseOwner(owner)
	if err != nil {
		return err
	}

	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := ctxutil.WithRequestID(cmd.Context(), uuid.NewString())
	return fn(ctxutil.WithOwnerID(ctx, ownerID), a)
}

func parseOwner(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("--owner is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("--owner: %w", err)
	}
	return id, nil
}

func parseDate(flag, s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD: %w", flag, err)
	}
	return d, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
