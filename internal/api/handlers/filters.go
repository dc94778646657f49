package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/models"
	"pokecatalog/internal/services"
)

type FilterHandler struct {
	pipeline *services.Pipeline
}

func NewFilterHandler(pipeline *services.Pipeline) *FilterHandler {
	return &FilterHandler{pipeline: pipeline}
}

// filterUpdateRequest carries partial filter changes. Absent fields keep
// their current value.
type filterUpdateRequest struct {
	Types    *[]string `json:"types"`
	Rarities *[]string `json:"rarities"`
	Sets     *[]string `json:"sets"`
	MinHP    *int      `json:"minHp"`
	MaxHP    *int      `json:"maxHp"`
}

// UpdateFilters merges partial filter changes into the active filter state.
func (h *FilterHandler) UpdateFilters(c *gin.Context) {
	var req filterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filters := h.pipeline.View().Filters
	if req.Types != nil {
		filters.Types = *req.Types
	}
	if req.Rarities != nil {
		filters.Rarities = *req.Rarities
	}
	if req.Sets != nil {
		filters.Sets = *req.Sets
	}
	if req.MinHP != nil {
		filters.MinHP = *req.MinHP
	}
	if req.MaxHP != nil {
		filters.MaxHP = *req.MaxHP
	}

	if filters.MinHP < 0 || filters.MaxHP < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hp bounds must be non-negative"})
		return
	}
	if filters.MinHP > filters.MaxHP {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minHp must not exceed maxHp"})
		return
	}

	h.pipeline.SetFilters(filters)
	c.JSON(http.StatusOK, h.pipeline.View())
}

// ResetFilters clears every filter constraint.
func (h *FilterHandler) ResetFilters(c *gin.Context) {
	h.pipeline.ResetFilters()
	c.JSON(http.StatusOK, h.pipeline.View())
}

// UpdateSort replaces the sort settings.
func (h *FilterHandler) UpdateSort(c *gin.Context) {
	var req models.SortSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Key.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort option must be one of name, hp, rarity, releaseDate"})
		return
	}
	if !req.Direction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort direction must be asc or desc"})
		return
	}

	h.pipeline.SetSort(req)
	c.JSON(http.StatusOK, h.pipeline.View())
}
