package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
	Cache      CacheConfig      `yaml:"cache"`
	Evolution  EvolutionConfig  `yaml:"evolution"`
	Quiz       QuizConfig       `yaml:"quiz"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds settings for the optional Redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"     env:"REDIS_ADDR"     env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db"       env:"REDIS_DB"       env-default:"0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Cache backends.
const (
	CacheBackendPostgres = "postgres"
	CacheBackendRedis    = "redis"
)

// CacheConfig holds itinerary cache settings.
type CacheConfig struct {
	Backend   string        `yaml:"backend"    env:"CACHE_BACKEND"    env-default:"postgres"`
	TTL       time.Duration `yaml:"ttl"        env:"CACHE_TTL"        env-default:"168h"`
	KeyPrefix string        `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"itinerary_cache"`
}

// EvolutionConfig holds the score deltas applied per feedback action.
type EvolutionConfig struct {
	CompletedDelta   float64 `yaml:"completed_delta"   env:"EVOLUTION_COMPLETED_DELTA"   env-default:"0.1"`
	SkippedDelta     float64 `yaml:"skipped_delta"     env:"EVOLUTION_SKIPPED_DELTA"     env-default:"-0.1"`
	AlternativeDelta float64 `yaml:"alternative_delta" env:"EVOLUTION_ALTERNATIVE_DELTA" env-default:"-0.05"`
	BalancedGap      float64 `yaml:"balanced_gap"      env:"EVOLUTION_BALANCED_GAP"      env-default:"1.0"`
}

// QuizConfig holds the thresholds used to read quiz answers.
type QuizConfig struct {
	BudgetTierMax   float64 `yaml:"budget_tier_max"    env:"QUIZ_BUDGET_TIER_MAX"    env-default:"0.4"`
	MidRangeTierMax float64 `yaml:"mid_range_tier_max" env:"QUIZ_MID_RANGE_TIER_MAX" env-default:"0.8"`
	PaceSlow        float64 `yaml:"pace_slow"          env:"QUIZ_PACE_SLOW"          env-default:"0.9"`
	PaceModerate    float64 `yaml:"pace_moderate"      env:"QUIZ_PACE_MODERATE"      env-default:"0.6"`
	PaceFast        float64 `yaml:"pace_fast"          env:"QUIZ_PACE_FAST"          env-default:"0.3"`
}

// GeneratorConfig holds itinerary generation settings.
type GeneratorConfig struct {
	CatalogPath         string        `yaml:"catalog_path"         env:"GENERATOR_CATALOG_PATH"`
	FallbackDestination string        `yaml:"fallback_destination" env:"GENERATOR_FALLBACK_DESTINATION" env-default:"paris"`
	Seed                int64         `yaml:"seed"                 env:"GENERATOR_SEED"                 env-default:"0"`
	LLMAPIKey           string        `yaml:"llm_api_key"          env:"GENERATOR_LLM_API_KEY"`
	LLMModel            string        `yaml:"llm_model"            env:"GENERATOR_LLM_MODEL"            env-default:"claude-sonnet-4-5"`
	LLMMaxTokens        int64         `yaml:"llm_max_tokens"       env:"GENERATOR_LLM_MAX_TOKENS"       env-default:"8192"`
	LLMTimeout          time.Duration `yaml:"llm_timeout"          env:"GENERATOR_LLM_TIMEOUT"          env-default:"60s"`
	LLMRatePerMinute    int           `yaml:"llm_rate_per_minute"  env:"GENERATOR_LLM_RATE_PER_MINUTE"  env-default:"30"`
}

// AIEnabled reports whether the LLM-backed generator is configured.
func (g GeneratorConfig) AIEnabled() bool {
	return g.LLMAPIKey != ""
}

// EnrichmentConfig holds the circuit breaker settings around trip enrichment.
type EnrichmentConfig struct {
	URL              string        `yaml:"url"               env:"ENRICHMENT_URL"`
	Timeout          time.Duration `yaml:"timeout"           env:"ENRICHMENT_TIMEOUT"           env-default:"5s"`
	FailureThreshold uint32        `yaml:"failure_threshold" env:"ENRICHMENT_FAILURE_THRESHOLD" env-default:"5"`
	OpenTimeout      time.Duration `yaml:"open_timeout"      env:"ENRICHMENT_OPEN_TIMEOUT"      env-default:"30s"`
	HalfOpenRequests uint32        `yaml:"half_open_requests" env:"ENRICHMENT_HALF_OPEN_REQUESTS" env-default:"1"`
}
