// Command tripdna is the operator CLI for the travel DNA engine: schema
// migrations, quiz bootstrap, itinerary planning and cache maintenance.
//
// Usage:
//
//	tripdna migrate [--status]
//	tripdna quiz --owner <uuid> --adventure 0.8 --culture 0.3 --foodie 0.5 --budget 0.6 --pace moderate
//	tripdna plan --owner <uuid> --destination Paris --start 2026-08-01 --end 2026-08-03 --budget 900
//	tripdna cache stats --owner <uuid>
//	tripdna cache clear --owner <uuid> [--destination Paris]
//	tripdna version
//
// Configuration is read like the services read it (CONFIG_PATH, .env, environment).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
