// Command cache-reaper deletes itinerary cache entries older than the
// configured TTL. Intended to run from cron next to the API.
//
// Usage:
//
//	cache-reaper
//
// Reads the same configuration as tripdna (CONFIG_PATH or environment).
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/intellitrip-backend/internal/app"
	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/pkg/ctxutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(ctxutil.WithRequestID(context.Background(), uuid.NewString()), 5*time.Minute)
	defer cancel()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	n, err := a.Cache.Reap(ctx)
	if err != nil {
		logger.Error("reap itinerary cache", slog.String("error", err.Error()))
		a.Close()
		os.Exit(1)
	}

	fmt.Printf("Deleted %d expired itinerary cache entries (ttl %s).\n", n, a.Cache.TTL())
}
