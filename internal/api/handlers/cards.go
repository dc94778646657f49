package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/services"
)

type CardHandler struct {
	searchService *services.SearchService
	priceService  *services.MarketPriceService
	pipeline      *services.Pipeline
}

func NewCardHandler(search *services.SearchService, prices *services.MarketPriceService, pipeline *services.Pipeline) *CardHandler {
	return &CardHandler{
		searchService: search,
		priceService:  prices,
		pipeline:      pipeline,
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search runs a query through the full pipeline and returns the refreshed
// visible page alongside the search outcome.
func (h *CardHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be JSON with a 'query' field"})
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, services.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"view":   h.pipeline.View(),
	})
}

// GetCards returns the current filtered, sorted, paginated view.
func (h *CardHandler) GetCards(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipeline.View())
}

// LoadMore advances the pagination cursor by one page.
func (h *CardHandler) LoadMore(c *gin.Context) {
	h.pipeline.LoadMore()
	c.JSON(http.StatusOK, h.pipeline.View())
}

// GetCard returns one card from the loaded collection.
func (h *CardHandler) GetCard(c *gin.Context) {
	id := c.Param("id")
	card := h.pipeline.CardByID(id)
	if card == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found in loaded collection"})
		return
	}
	c.JSON(http.StatusOK, card)
}

// LoadPrices enriches the current result set with market price snapshots.
// Idempotent: once the set is enriched, repeat calls return the view as-is
// until a new search replaces the collection.
func (h *CardHandler) LoadPrices(c *gin.Context) {
	if h.pipeline.PricesLoaded() {
		c.JSON(http.StatusOK, h.pipeline.View())
		return
	}

	visible := h.pipeline.VisibleCards()
	prices, err := h.priceService.PricesFor(c.Request.Context(), visible)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.pipeline.SetPrices(prices)
	c.JSON(http.StatusOK, h.pipeline.View())
}
