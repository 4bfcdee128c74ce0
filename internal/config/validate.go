package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Cache.validate(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.Evolution.validate(); err != nil {
		return fmt.Errorf("evolution: %w", err)
	}
	if err := c.Quiz.validate(); err != nil {
		return fmt.Errorf("quiz: %w", err)
	}
	if err := c.Generator.validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if c.Enrichment.FailureThreshold == 0 {
		return fmt.Errorf("enrichment: failure_threshold must be > 0")
	}
	return nil
}

func (c *CacheConfig) validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case CacheBackendPostgres, CacheBackendRedis:
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", CacheBackendPostgres, CacheBackendRedis, c.Backend)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("ttl must be > 0 (got %s)", c.TTL)
	}
	return nil
}

func (e *EvolutionConfig) validate() error {
	if e.CompletedDelta <= 0 {
		return fmt.Errorf("completed_delta must be > 0 (got %v)", e.CompletedDelta)
	}
	if e.SkippedDelta >= 0 {
		return fmt.Errorf("skipped_delta must be < 0 (got %v)", e.SkippedDelta)
	}
	if e.AlternativeDelta >= 0 {
		return fmt.Errorf("alternative_delta must be < 0 (got %v)", e.AlternativeDelta)
	}
	if e.BalancedGap < 0 {
		return fmt.Errorf("balanced_gap must be >= 0 (got %v)", e.BalancedGap)
	}
	return nil
}

func (q *QuizConfig) validate() error {
	if q.BudgetTierMax <= 0 || q.BudgetTierMax >= q.MidRangeTierMax || q.MidRangeTierMax >= 1 {
		return fmt.Errorf("budget thresholds must satisfy 0 < budget_tier_max < mid_range_tier_max < 1 (got %v, %v)",
			q.BudgetTierMax, q.MidRangeTierMax)
	}
	for name, v := range map[string]float64{"pace_slow": q.PaceSlow, "pace_moderate": q.PaceModerate, "pace_fast": q.PaceFast} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1] (got %v)", name, v)
		}
	}
	return nil
}

func (g *GeneratorConfig) validate() error {
	if strings.TrimSpace(g.FallbackDestination) == "" {
		return fmt.Errorf("fallback_destination is required")
	}
	if g.AIEnabled() {
		if g.LLMModel == "" {
			return fmt.Errorf("llm_model is required when llm_api_key is set")
		}
		if g.LLMRatePerMinute <= 0 {
			return fmt.Errorf("llm_rate_per_minute must be > 0 (got %d)", g.LLMRatePerMinute)
		}
		if g.LLMMaxTokens <= 0 {
			return fmt.Errorf("llm_max_tokens must be > 0 (got %d)", g.LLMMaxTokens)
		}
	}
	return nil
}
