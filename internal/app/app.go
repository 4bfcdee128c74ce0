package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/intellitrip-backend/internal/adapter/catalog"
	"github.com/heartmarshall/intellitrip-backend/internal/adapter/llm"
	"github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres"
	pgcache "github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres/itinerarycache"
	profilerepo "github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres/profile"
	triprepo "github.com/heartmarshall/intellitrip-backend/internal/adapter/postgres/trip"
	"github.com/heartmarshall/intellitrip-backend/internal/adapter/provider/dayinfo"
	"github.com/heartmarshall/intellitrip-backend/internal/adapter/redis"
	rediscache "github.com/heartmarshall/intellitrip-backend/internal/adapter/redis/itinerarycache"
	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
	"github.com/heartmarshall/intellitrip-backend/internal/service/dna"
	"github.com/heartmarshall/intellitrip-backend/internal/service/itinerarycache"
	"github.com/heartmarshall/intellitrip-backend/internal/service/planner"
	"github.com/heartmarshall/intellitrip-backend/internal/service/trip"
)

// App holds the wired services and the connections they share.
type App struct {
	Config  *config.Config
	Log     *slog.Logger
	Catalog *catalog.Catalog
	DNA     *dna.Service
	Cache   *itinerarycache.Service
	Planner *planner.Service
	Trips   *trip.Service

	pool  *pgxpool.Pool
	redis *goredis.Client
}

// Build connects to storage and wires every service from cfg.
// The caller must Close the returned App.
func Build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	a.pool = pool

	cat, err := catalog.Load(cfg.Generator.CatalogPath, cfg.Generator.FallbackDestination)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Catalog = cat

	store, err := a.cacheStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	tx := postgres.NewTxManager(pool)
	profiles := profilerepo.New(pool)
	trips := triprepo.New(pool)

	a.DNA = dna.NewService(log, profiles, trips, tx, cfg.Evolution, cfg.Quiz)
	a.Cache = itinerarycache.NewService(log, store, cfg.Cache)

	picker := planner.NewPicker(cfg.Generator.Seed)
	if cfg.Generator.AIEnabled() {
		a.Planner = planner.NewService(log, a.DNA, a.Cache, cat, picker, llm.New(log, cfg.Generator))
	} else {
		a.Planner = planner.NewService(log, a.DNA, a.Cache, cat, picker, nil)
	}

	var enricher trip.Enricher
	if cfg.Enrichment.URL != "" {
		enricher = dayinfo.NewProvider(cfg.Enrichment.URL, log)
	}
	a.Trips = trip.NewService(log, trips, a.DNA, a.Planner, tx, enricher, cfg.Enrichment)

	stats := cat.Stats()
	log.InfoContext(ctx, "application wired",
		slog.String("version", BuildVersion()),
		slog.String("cache_backend", cfg.Cache.Backend),
		slog.Bool("ai_enabled", cfg.Generator.AIEnabled()),
		slog.Bool("enrichment_enabled", enricher != nil),
		slog.Int("catalog_destinations", stats.Destinations),
	)
	return a, nil
}

// cacheStore is the method set shared by both itinerary cache backends.
type cacheStore interface {
	Touch(ctx context.Context, ownerID uuid.UUID, fingerprint string, notAfter, now time.Time) (*domain.CacheEntry, error)
	Upsert(ctx context.Context, e *domain.CacheEntry) (*domain.CacheEntry, error)
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID, destination string) (int, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
	Stats(ctx context.Context, ownerID uuid.UUID, notAfter time.Time) (domain.CacheStats, error)
}

var (
	_ cacheStore = (*pgcache.Repo)(nil)
	_ cacheStore = (*rediscache.Store)(nil)
)

// cacheStore selects the itinerary cache backend.
func (a *App) cacheStore(ctx context.Context) (cacheStore, error) {
	switch a.Config.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := redis.NewClient(ctx, a.Config.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		return rediscache.New(client, a.Config.Cache.KeyPrefix, a.Config.Cache.TTL), nil
	default:
		return pgcache.New(a.pool), nil
	}
}

// Close releases the connections opened by Build.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.Log.Warn("close redis", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
