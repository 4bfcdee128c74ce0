package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/intellitrip-backend/migrations"
)

// Migrate applies every embedded goose migration to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	_, err := runMigrations(ctx, dsn, func(ctx context.Context, p *goose.Provider) error {
		_, err := p.Up(ctx)
		return err
	})
	return err
}

// MigrationStatus reports the current schema version of the database at dsn.
func MigrationStatus(ctx context.Context, dsn string) (int64, error) {
	return runMigrations(ctx, dsn, func(context.Context, *goose.Provider) error { return nil })
}

func runMigrations(ctx context.Context, dsn string, fn func(context.Context, *goose.Provider) error) (int64, error) {
	// goose works on database/sql, so open a short-lived handle next to the pool.
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("goose new provider: %w", err)
	}

	if err := fn(ctx, provider); err != nil {
		return 0, fmt.Errorf("goose: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return version, nil
}
