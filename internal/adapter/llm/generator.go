// Package llm generates itineraries with Claude.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/time/rate"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

// ErrRateLimited is returned when the per-process request budget is spent.
var ErrRateLimited = errors.New("llm: rate limit exceeded")

// Generator builds itineraries by prompting Claude for a JSON document.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	limiter   *rate.Limiter
	log       *slog.Logger
}

// New creates a Generator from GeneratorConfig. Extra request options are
// appended after the API key (tests point the client at a local server).
func New(log *slog.Logger, cfg config.GeneratorConfig, opts ...option.RequestOption) *Generator {
	opts = append([]option.RequestOption{option.WithAPIKey(cfg.LLMAPIKey)}, opts...)

	limit := rate.Inf
	if cfg.LLMRatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.LLMRatePerMinute))
	}

	return &Generator{
		client:    anthropic.NewClient(opts...),
		model:     cfg.LLMModel,
		maxTokens: cfg.LLMMaxTokens,
		timeout:   cfg.LLMTimeout,
		limiter:   rate.NewLimiter(limit, 1),
		log:       log.With("adapter", "llm"),
	}
}

// Tag identifies itineraries produced by this generator.
func (g *Generator) Tag() domain.GeneratorTag {
	return domain.GeneratorAI
}

// Generate asks the model for an itinerary and validates the result.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.Itinerary, error) {
	if !g.limiter.Allow() {
		return nil, ErrRateLimited
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(req))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm api call for %q: %w", req.Destination, err)
	}
	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("empty response for %q", req.Destination)
	}

	it, err := parseItinerary(msg.Content[0].Text, req)
	if err != nil {
		return nil, err
	}

	g.log.InfoContext(ctx, "itinerary generated",
		slog.String("destination", req.Destination),
		slog.Int("days", len(it.Days)),
		slog.Duration("took", time.Since(start)),
	)
	return it, nil
}

func parseItinerary(text string, req domain.GenerateRequest) (*domain.Itinerary, error) {
	raw, err := extractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("extract json for %q: %w", req.Destination, err)
	}

	var it domain.Itinerary
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return nil, fmt.Errorf("decode itinerary for %q: %w", req.Destination, err)
	}

	want := req.Days()
	if len(it.Days) != want {
		return nil, fmt.Errorf("itinerary for %q has %d days, want %d", req.Destination, len(it.Days), want)
	}

	if it.Destination == "" {
		it.Destination = req.Destination
	}
	it.RebaseDates(req.StartDate)
	for d := range it.Days {
		for a := range it.Days[d].Activities {
			act := &it.Days[d].Activities[a]
			act.Category = domain.Category(strings.ToLower(strings.TrimSpace(string(act.Category))))
			if act.ID == "" {
				act.ID = fmt.Sprintf("%d-%d", d+1, a+1)
			}
			act.Status = ""
		}
	}

	if err := domain.ValidateItinerary(&it); err != nil {
		return nil, fmt.Errorf("invalid itinerary for %q: %w", req.Destination, err)
	}
	return &it, nil
}

// extractJSON finds the outermost JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

func buildPrompt(req domain.GenerateRequest) string {
	return fmt.Sprintf(`You are an expert travel planner.

Plan a %d-day trip to %s from %s to %s for %d traveler(s) with a total budget of %.0f USD.
Accommodation preference: %s. Transportation preference: %s.

Traveler preference scores (0-10, higher means stronger interest):
- adventure: %.1f
- culture: %.1f
- foodie: %.1f
- relaxation: %.1f
Spending level (0-1): %.2f. Preferred pace: %s.

Schedule more activities in categories with higher scores. Plan three activities per day
(morning 09:00, afternoon 13:00, evening 18:00) unless the pace is slow.

Output ONLY a valid JSON object matching this exact schema:
{
  "destination": "<city>",
  "totalDays": <number>,
  "estimatedTotalCost": <number>,
  "costBreakdown": {"accommodation": <number>, "food": <number>, "activities": <number>, "transportation": <number>, "miscellaneous": <number>},
  "dailyItinerary": [
    {
      "day": <number>,
      "date": "YYYY-MM-DD",
      "theme": "<short theme>",
      "activities": [
        {"time": "HH:MM", "activity": "<name>", "location": "<place>", "description": "<one sentence>",
         "cost": <number>, "type": "<adventure|culture|foodie|relaxation>", "duration": "<e.g. 2 hours>"}
      ],
      "meals": [
        {"type": "<breakfast|lunch|dinner|snack>", "restaurant": "<name>", "cuisine": "<cuisine>", "cost": <number>}
      ],
      "accommodation": {"name": "<name>", "type": "<type>", "cost": <number>}
    }
  ],
  "recommendations": {"bestTimeToVisit": "<text>", "localTips": ["<tip>"], "packingList": ["<item>"], "culturalEtiquette": ["<rule>"]}
}

Rules:
- Exactly %d entries in dailyItinerary, one per date
- Costs are per person in USD and never negative
- Output ONLY the JSON, no markdown, no explanations`,
		req.Days(), req.Destination,
		req.StartDate.Format(domain.DateLayout), req.EndDate.Format(domain.DateLayout),
		req.Travelers, req.Budget,
		orDefault(req.Accommodation, "any"), orDefault(req.Transportation, "any"),
		req.Scores.Adventure, req.Scores.Culture, req.Scores.Foodie, req.Scores.Relaxation,
		req.DNA.Budget, orDefault(string(req.DNA.Pace), "moderate"),
		req.Days(),
	)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
