// Package tcgdex is a client for the TCGdex card API (https://tcgdex.dev).
package tcgdex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"pokecatalog/internal/metrics"
	"pokecatalog/internal/models"
)

const (
	DefaultBaseURL = "https://api.tcgdex.net/v2/en"

	requestTimeout = 30 * time.Second
)

// ErrUnexpectedShape is returned when an endpoint responds with a body that
// does not decode into the documented shape (e.g. an object where a card list
// is expected). Callers use it as the trigger for fallback behavior.
var ErrUnexpectedShape = errors.New("tcgdex: unexpected response shape")

// Client talks to the TCGdex REST API. Requests are throttled with a shared
// limiter so burst fan-outs from the search pipeline stay polite upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a TCGdex client. An empty baseURL selects the public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(20), 40),
	}
}

// CardSummary is the abbreviated record the list and search endpoints return.
type CardSummary struct {
	ID      string `json:"id"`
	LocalID string `json:"localId"`
	Name    string `json:"name"`
	Image   string `json:"image"`
}

// SearchByName returns card summaries whose name matches the term.
func (c *Client) SearchByName(ctx context.Context, term string) ([]CardSummary, error) {
	reqURL := fmt.Sprintf("%s/cards?name=%s", c.baseURL, url.QueryEscape(term))

	body, status, err := c.get(ctx, "search", reqURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []CardSummary{}, nil
	}
	if status != http.StatusOK {
		metrics.TCGdexRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, fmt.Errorf("tcgdex API returned status %d", status)
	}

	summaries, err := decodeCardList(body)
	if err != nil {
		metrics.TCGdexRequestsTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	metrics.TCGdexRequestsTotal.WithLabelValues("search", "success").Inc()
	return summaries, nil
}

// ListCards returns up to limit card summaries from the generic listing
// endpoint. An unexpected body decodes to ErrUnexpectedShape rather than an
// empty list so callers can tell "nothing there" from "not what we asked for".
func (c *Client) ListCards(ctx context.Context, limit int) ([]CardSummary, error) {
	reqURL := fmt.Sprintf("%s/cards?limit=%d", c.baseURL, limit)

	body, status, err := c.get(ctx, "list", reqURL)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		metrics.TCGdexRequestsTotal.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("tcgdex API returned status %d", status)
	}

	summaries, err := decodeCardList(body)
	if err != nil {
		metrics.TCGdexRequestsTotal.WithLabelValues("list", "error").Inc()
		return nil, err
	}
	metrics.TCGdexRequestsTotal.WithLabelValues("list", "success").Inc()
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// GetCard fetches the full detail record for a card id. A 404 returns
// (nil, nil). Image and set asset references come back normalized.
func (c *Client) GetCard(ctx context.Context, id string) (*models.Card, error) {
	reqURL := fmt.Sprintf("%s/cards/%s", c.baseURL, url.PathEscape(id))

	body, status, err := c.get(ctx, "card", reqURL)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		metrics.TCGdexRequestsTotal.WithLabelValues("card", "not_found").Inc()
		return nil, nil
	}
	if status != http.StatusOK {
		metrics.TCGdexRequestsTotal.WithLabelValues("card", "error").Inc()
		return nil, fmt.Errorf("tcgdex API returned status %d", status)
	}

	var wire wireCard
	if err := json.Unmarshal(body, &wire); err != nil {
		metrics.TCGdexRequestsTotal.WithLabelValues("card", "error").Inc()
		return nil, fmt.Errorf("failed to decode card response: %w", err)
	}

	metrics.TCGdexRequestsTotal.WithLabelValues("card", "success").Inc()
	return wire.toCard(), nil
}

func (c *Client) get(ctx context.Context, endpoint, reqURL string) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.TCGdexRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TCGdexRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, 0, fmt.Errorf("tcgdex request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TCGdexRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, 0, fmt.Errorf("failed to read tcgdex response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// decodeCardList is the single decision point for list-shaped responses:
// either a JSON array of summaries, or ErrUnexpectedShape.
func decodeCardList(body []byte) ([]CardSummary, error) {
	var wire []wireSummary
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}

	summaries := make([]CardSummary, 0, len(wire))
	for _, w := range wire {
		summaries = append(summaries, CardSummary{
			ID:      w.ID,
			LocalID: string(w.LocalID),
			Name:    w.Name,
			Image:   w.Image,
		})
	}
	return summaries, nil
}
