package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pokecatalog/internal/imageurl"
	"pokecatalog/internal/tcgdex"
)

func TestDefaultLoaderFromListing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cards" {
			var list []map[string]any
			for i := 0; i < defaultCardCount; i++ {
				list = append(list, map[string]any{
					"id":   fmt.Sprintf("list-%d", i),
					"name": fmt.Sprintf("Listed %d", i),
				})
			}
			json.NewEncoder(w).Encode(list)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/cards/")
		json.NewEncoder(w).Encode(map[string]any{"id": id, "name": "Card " + id})
	}))
	defer ts.Close()

	pipeline := NewPipeline()
	loader := NewDefaultLoader(tcgdex.NewClient(ts.URL), pipeline)

	count, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if count != defaultCardCount {
		t.Errorf("Expected %d cards, got %d", defaultCardCount, count)
	}
	if got := pipeline.View().TotalCards; got != defaultCardCount {
		t.Errorf("Pipeline should hold %d cards, got %d", defaultCardCount, got)
	}
}

func TestDefaultLoaderFallbackIDs(t *testing.T) {
	var fetched []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cards" {
			// Unexpected shape: object instead of list
			w.Write([]byte(`{"error": "maintenance"}`))
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/cards/")
		fetched = append(fetched, id)
		if id == "base1-1" || id == "neo1-1" {
			// Individual failures are skipped
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": id, "name": "Card " + id})
	}))
	defer ts.Close()

	pipeline := NewPipeline()
	loader := NewDefaultLoader(tcgdex.NewClient(ts.URL), pipeline)

	count, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := len(fallbackCardIDs) - 2
	if count != want {
		t.Errorf("Expected %d cards after 2 skips, got %d", want, count)
	}
	if count == 0 {
		t.Error("Fallback load must never end empty")
	}
	if len(fetched) != len(fallbackCardIDs) {
		t.Errorf("Expected one fetch per fallback id (%d), got %d", len(fallbackCardIDs), len(fetched))
	}
}

func TestDefaultLoaderPlaceholders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	pipeline := NewPipeline()
	loader := NewDefaultLoader(tcgdex.NewClient(ts.URL), pipeline)

	count, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if count != defaultCardCount {
		t.Fatalf("Expected %d placeholder cards, got %d", defaultCardCount, count)
	}

	cards := pipeline.Cards()
	for i, c := range cards {
		if c.Image != imageurl.Placeholder {
			t.Errorf("Placeholder card %d should use the placeholder image, got %s", i, c.Image)
		}
		if !strings.HasPrefix(c.ID, "placeholder-") {
			t.Errorf("Unexpected placeholder id %s", c.ID)
		}
	}
}

func TestDefaultLoaderSupersededBySearch(t *testing.T) {
	pipeline := NewPipeline()

	// A user search begins while the default load is in flight. The pipeline
	// sequence moves on, so the load's results must be dropped.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cards" {
			pipeline.BeginSearch()
			w.Write([]byte(`[{"id": "a-1", "name": "A"}]`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "a-1", "name": "A"})
	}))
	defer ts.Close()

	loader := NewDefaultLoader(tcgdex.NewClient(ts.URL), pipeline)
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("A superseded default load should report an error")
	}
	if got := pipeline.View().TotalCards; got != 0 {
		t.Errorf("Superseded load must not install cards, got %d", got)
	}
}
