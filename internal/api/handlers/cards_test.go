package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/services"
)

func newCardRouter(t *testing.T, pipeline *services.Pipeline) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cache, err := services.NewPriceCache()
	if err != nil {
		t.Fatalf("Failed to create price cache: %v", err)
	}
	prices := services.NewMarketPriceService(cache, 1)

	h := NewCardHandler(nil, prices, pipeline)
	router := gin.New()
	router.GET("/api/cards", h.GetCards)
	router.POST("/api/cards/load-more", h.LoadMore)
	router.GET("/api/cards/:id", h.GetCard)
	router.POST("/api/prices/load", h.LoadPrices)
	return router
}

func TestGetCards(t *testing.T) {
	router := newCardRouter(t, seededPipeline())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/cards", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var view services.PipelineView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode view: %v", err)
	}
	if view.TotalCards != 2 || len(view.Cards) != 2 {
		t.Errorf("Expected 2 cards, got total=%d page=%d", view.TotalCards, len(view.Cards))
	}
}

func TestGetCardByID(t *testing.T) {
	router := newCardRouter(t, seededPipeline())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/cards/base1-4", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for a loaded card, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/cards/unknown-99", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown card, got %d", w.Code)
	}
}

func TestLoadPricesIdempotent(t *testing.T) {
	pipeline := seededPipeline()
	router := newCardRouter(t, pipeline)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/prices/load", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !pipeline.PricesLoaded() {
		t.Fatal("Prices should be marked loaded")
	}

	first := pipeline.CardByID("base1-4")
	if first.MarketPrices == nil {
		t.Fatal("Visible card should carry a price snapshot")
	}

	// Second call is a no-op
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/prices/load", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	second := pipeline.CardByID("base1-4")
	if *second.MarketPrices != *first.MarketPrices {
		t.Error("Repeated price load should not change snapshots")
	}
}
