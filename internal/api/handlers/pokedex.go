package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/database"
	"pokecatalog/internal/metrics"
	"pokecatalog/internal/models"
	"pokecatalog/internal/services"
)

type PokedexHandler struct {
	pokedexService *services.PokedexService
}

func NewPokedexHandler(pokedex *services.PokedexService) *PokedexHandler {
	return &PokedexHandler{pokedexService: pokedex}
}

// refreshPokedexMetricsAsync updates the pokédex gauges off the request path.
func refreshPokedexMetricsAsync() {
	go metrics.UpdatePokedexMetrics(database.GetDB())
}

func (h *PokedexHandler) GetPokedex(c *gin.Context) {
	items, err := h.pokedexService.List(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *PokedexHandler) AddToPokedex(c *gin.Context) {
	var req models.AddPokedexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Card.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card id is required"})
		return
	}

	item, err := h.pokedexService.Add(c.Request.Context(), userID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	refreshPokedexMetricsAsync()
	c.JSON(http.StatusCreated, item)
}

func (h *PokedexHandler) UpdatePokedexItem(c *gin.Context) {
	var req models.UpdatePokedexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.pokedexService.Update(c.Request.Context(), userID(c), c.Param("cardId"), req)
	if err != nil {
		if errors.Is(err, services.ErrNotInPokedex) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	refreshPokedexMetricsAsync()
	if item == nil {
		// Quantity dropped to zero, entry removed
		c.JSON(http.StatusOK, gin.H{"message": "card removed from pokédex"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *PokedexHandler) RemoveFromPokedex(c *gin.Context) {
	err := h.pokedexService.Remove(c.Request.Context(), userID(c), c.Param("cardId"))
	if err != nil {
		if errors.Is(err, services.ErrNotInPokedex) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	refreshPokedexMetricsAsync()
	c.JSON(http.StatusOK, gin.H{"message": "card removed from pokédex"})
}

func (h *PokedexHandler) GetStats(c *gin.Context) {
	stats, err := h.pokedexService.Stats(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
