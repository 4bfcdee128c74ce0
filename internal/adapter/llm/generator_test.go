package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/intellitrip-backend/internal/config"
	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

const itineraryJSON = `{
  "destination": "Paris",
  "totalDays": 2,
  "estimatedTotalCost": 640,
  "costBreakdown": {"accommodation": 300, "food": 150, "activities": 120, "transportation": 40, "miscellaneous": 30},
  "dailyItinerary": [
    {"day": 1, "date": "2030-01-01", "activities": [
      {"time": "09:00", "activity": "Louvre Museum tour", "cost": 22, "type": "Culture", "duration": "3 hours"}
    ], "meals": [{"type": "lunch", "restaurant": "Le Petit Cler", "cost": 25}]},
    {"day": 2, "date": "2030-01-02", "activities": [
      {"time": "18:00", "activity": "Seine river cruise", "cost": 18, "type": "relaxation"}
    ]}
  ],
  "recommendations": {"localTips": ["Buy a Navigo pass"]}
}`

func testRequest() domain.GenerateRequest {
	return domain.GenerateRequest{
		Destination: "Paris",
		StartDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC),
		Budget:      1500,
		Travelers:   2,
		Scores:      domain.Scores{Adventure: 4, Culture: 9, Foodie: 6, Relaxation: 3},
		DNA:         domain.DNASnapshot{Adventure: 4, Culture: 9, Foodie: 6, Budget: 0.6, Pace: domain.PaceModerate},
	}
}

func messageResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         "claude-test",
		"content":       []map[string]any{{"type": "text", "text": text}},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
	})
	return string(body)
}

func newTestGenerator(t *testing.T, ratePerMinute int, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.GeneratorConfig{
		LLMAPIKey:        "test-key",
		LLMModel:         "claude-test",
		LLMMaxTokens:     1024,
		LLMTimeout:       5 * time.Second,
		LLMRatePerMinute: ratePerMinute,
	}
	return New(slog.Default(), cfg, option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	var prompt string
	gen := newTestGenerator(t, 0, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		prompt = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageResponse("Here you go:\n"+itineraryJSON+"\nEnjoy!"))
	})

	it, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Contains(t, prompt, "2-day trip to Paris")
	assert.Contains(t, prompt, "culture: 9.0")

	require.Len(t, it.Days, 2)
	assert.Equal(t, "2026-09-10", it.Days[0].Date)
	assert.Equal(t, "2026-09-11", it.Days[1].Date)
	assert.Equal(t, domain.CategoryCulture, it.Days[0].Activities[0].Category)
	assert.Equal(t, "1-1", it.Days[0].Activities[0].ID)
	assert.Equal(t, domain.GeneratorAI, gen.Tag())
}

func TestGenerator_Generate_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"no json", "I cannot plan this trip."},
		{"wrong day count", `{"destination":"Paris","totalDays":1,"dailyItinerary":[{"day":1,"date":"2030-01-01","activities":[]}]}`},
		{"bad category", strings.Replace(itineraryJSON, `"Culture"`, `"shopping"`, 1)},
		{"truncated", itineraryJSON[:200]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := newTestGenerator(t, 0, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, messageResponse(tt.text))
			})

			_, err := gen.Generate(context.Background(), testRequest())
			require.Error(t, err)
		})
	}
}

func TestGenerator_Generate_APIError(t *testing.T) {
	t.Parallel()

	gen := newTestGenerator(t, 0, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	})

	_, err := gen.Generate(context.Background(), testRequest())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}

func TestGenerator_Generate_RateLimited(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	gen := newTestGenerator(t, 1, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, messageResponse(itineraryJSON))
	})

	_, err := gen.Generate(context.Background(), testRequest())
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), testRequest())
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(1), calls.Load())
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	got, err := extractJSON("```json\n{\"a\": {\"b\": 1}}\n```")
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": 1}}`, got)

	_, err = extractJSON("} nothing {")
	require.Error(t, err)
}
