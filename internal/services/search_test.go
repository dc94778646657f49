package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"pokecatalog/internal/tcgdex"
)

// recordingHistorian captures history entries in memory.
type recordingHistorian struct {
	queries []string
	counts  []int
}

func (r *recordingHistorian) Record(query string, resultCount int) {
	r.queries = append(r.queries, query)
	r.counts = append(r.counts, resultCount)
}

// mockTCGdex serves search and detail responses from in-memory fixtures and
// counts requests.
type mockTCGdex struct {
	byTerm     map[string][]tcgdex.CardSummary
	details    map[string]map[string]any
	failDetail map[string]bool

	requests atomic.Int64
}

func (m *mockTCGdex) server() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)

		if r.URL.Path == "/cards" {
			term := r.URL.Query().Get("name")
			summaries, ok := m.byTerm[term]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(summaries)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/cards/")
		if m.failDetail[id] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		detail, ok := m.details[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(detail)
	}))
}

func newSearchFixture(t *testing.T, mock *mockTCGdex) (*SearchService, *Pipeline, *recordingHistorian, func()) {
	t.Helper()
	ts := mock.server()
	pipeline := NewPipeline()
	history := &recordingHistorian{}
	svc := NewSearchService(tcgdex.NewClient(ts.URL), pipeline, history)
	return svc, pipeline, history, ts.Close
}

func TestSearchSingleTerm(t *testing.T) {
	mock := &mockTCGdex{
		byTerm: map[string][]tcgdex.CardSummary{
			"pikachu": {{ID: "swsh4-44", LocalID: "44", Name: "Pikachu VMAX", Image: "/en/swsh/swsh4/44"}},
		},
		details: map[string]map[string]any{
			"swsh4-44": {
				"id": "swsh4-44", "localId": "44", "name": "Pikachu VMAX",
				"image": "/en/swsh/swsh4/44", "hp": "310", "rarity": "Rare Rainbow",
			},
		},
	}
	svc, pipeline, history, done := newSearchFixture(t, mock)
	defer done()

	result, err := svc.Search(context.Background(), "Pikachu")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(result.Cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(result.Cards))
	}
	card := result.Cards[0]
	if card.Name != "Pikachu VMAX" {
		t.Errorf("Card name should be preserved as returned, got %q", card.Name)
	}
	if card.Image != "https://assets.tcgdex.net/en/swsh/swsh4/44/high.webp" {
		t.Errorf("Image should be a fully-qualified .webp URL, got %s", card.Image)
	}

	if got := pipeline.View().TotalCards; got != 1 {
		t.Errorf("Pipeline should hold 1 card, got %d", got)
	}
	if len(history.queries) != 1 || history.counts[0] != 1 {
		t.Errorf("Expected one history entry with count 1, got %v %v", history.queries, history.counts)
	}
}

func TestSearchDedupeAcrossTerms(t *testing.T) {
	shared := tcgdex.CardSummary{ID: "base1-1", Name: "Alakazam", Image: "/en/base/base1/1"}
	mock := &mockTCGdex{
		byTerm: map[string][]tcgdex.CardSummary{
			"pikachu": {shared, {ID: "base1-58", Name: "Pikachu"}},
			"raichu":  {shared, {ID: "base1-14", Name: "Raichu"}},
		},
	}
	svc, _, _, done := newSearchFixture(t, mock)
	defer done()

	result, err := svc.Search(context.Background(), "pikachu, raichu")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	count := 0
	for _, c := range result.Cards {
		if c.ID == "base1-1" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Shared id base1-1 should appear exactly once, got %d", count)
	}
	if len(result.Cards) != 3 {
		t.Errorf("Expected 3 unique cards, got %d", len(result.Cards))
	}
	if len(result.Terms) != 2 || result.Terms[0] != "pikachu" || result.Terms[1] != "raichu" {
		t.Errorf("Terms should be trimmed and lowercased in order, got %v", result.Terms)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	mock := &mockTCGdex{}
	svc, _, history, done := newSearchFixture(t, mock)
	defer done()

	_, err := svc.Search(context.Background(), "   ")
	if err != ErrEmptyQuery {
		t.Fatalf("Expected ErrEmptyQuery, got %v", err)
	}

	if n := mock.requests.Load(); n != 0 {
		t.Errorf("Validation failure should issue zero network calls, got %d", n)
	}
	if len(history.queries) != 1 || history.counts[0] != 0 {
		t.Errorf("Expected one history entry with count 0, got %v %v", history.queries, history.counts)
	}
}

func TestSearchNoMatch(t *testing.T) {
	mock := &mockTCGdex{
		byTerm: map[string][]tcgdex.CardSummary{},
	}
	svc, pipeline, history, done := newSearchFixture(t, mock)
	defer done()

	pipeline.ApplyResults(pipeline.BeginSearch(), manyCards(5))

	result, err := svc.Search(context.Background(), "missingno")
	if err != nil {
		t.Fatalf("No-match should not be an error, got %v", err)
	}
	if !result.NoMatch {
		t.Error("Expected the no-match outcome")
	}
	if got := pipeline.View().TotalCards; got != 0 {
		t.Errorf("No-match should clear the collection, got %d cards", got)
	}
	if history.counts[len(history.counts)-1] != 0 {
		t.Errorf("No-match should record count 0, got %d", history.counts[len(history.counts)-1])
	}
}

func TestSearchDetailFallback(t *testing.T) {
	mock := &mockTCGdex{
		byTerm: map[string][]tcgdex.CardSummary{
			"eevee": {
				{ID: "base1-51", Name: "Eevee", Image: "/en/base/base1/51"},
				{ID: "base1-52", Name: "Flareon", Image: "/en/base/base1/52"},
			},
		},
		details: map[string]map[string]any{
			"base1-52": {"id": "base1-52", "name": "Flareon", "hp": "70", "rarity": "Rare"},
		},
		failDetail: map[string]bool{"base1-51": true},
	}
	svc, _, _, done := newSearchFixture(t, mock)
	defer done()

	result, err := svc.Search(context.Background(), "eevee")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Cards) != 2 {
		t.Fatalf("Detail failure should not drop the card, got %d cards", len(result.Cards))
	}

	byID := map[string]int{}
	for i := range result.Cards {
		byID[result.Cards[i].ID] = i
	}
	fi, ok := byID["base1-51"]
	if !ok {
		t.Fatal("Fallback card missing")
	}
	ei, ok := byID["base1-52"]
	if !ok {
		t.Fatal("Enriched card missing")
	}

	fallback, enriched := result.Cards[fi], result.Cards[ei]
	if fallback.Name != "Eevee" {
		t.Errorf("Fallback card should keep the summary name, got %q", fallback.Name)
	}
	if !strings.HasSuffix(fallback.Image, "/high.webp") {
		t.Errorf("Fallback card image should still be normalized, got %s", fallback.Image)
	}
	if enriched.HP != "70" || enriched.Rarity != "Rare" {
		t.Errorf("Enriched card should carry detail fields, got %+v", enriched)
	}
}

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"pikachu", []string{"pikachu"}},
		{"Pikachu, Raichu", []string{"pikachu", "raichu"}},
		{"  CHARIZARD  ", []string{"charizard"}},
		{"a,,b, ,c", []string{"a", "b", "c"}},
		{"", nil},
		{" , , ", nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			got := SplitQuery(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("SplitQuery(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("SplitQuery(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
