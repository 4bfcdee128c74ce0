// Package dayinfo fetches per-day weather and destination details from an
// HTTP enrichment service.
package dayinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/heartmarshall/intellitrip-backend/internal/domain"
)

const retryDelay = 500 * time.Millisecond

// response is the document returned by GET <base>/days.
type response struct {
	Weather json.RawMessage `json:"weather"`
	Details json.RawMessage `json:"details"`
}

// Provider calls the enrichment service. It satisfies trip.Enricher.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider for baseURL. The per-call deadline comes
// from the caller's context.
func NewProvider(baseURL string, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        logger.With("adapter", "dayinfo"),
	}
}

// EnrichDay fetches the documents for one itinerary day.
// Returns nil documents without error when the service knows nothing
// about the day (HTTP 404).
func (p *Provider) EnrichDay(ctx context.Context, destination string, day domain.DayPlan) (weather, details json.RawMessage, err error) {
	q := url.Values{}
	q.Set("destination", destination)
	q.Set("date", day.Date)
	reqURL := p.baseURL + "/days?" + q.Encode()

	p.log.DebugContext(ctx, "dayinfo request",
		slog.String("destination", destination),
		slog.String("date", day.Date),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("dayinfo: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("dayinfo: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("dayinfo: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("dayinfo: read body: %w", err)
	}

	var doc response
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, nil, fmt.Errorf("dayinfo: decode json: %w", err)
	}
	return nullToNil(doc.Weather), nullToNil(doc.Details), nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "dayinfo retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(retryDelay):
	}

	return p.httpClient.Do(req)
}

func nullToNil(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return raw
}
