package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/services"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: history}
}

// GetHistory returns recent searches, newest first.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	items, err := h.historyService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": items})
}

// ClearHistory removes every stored search.
func (h *HistoryHandler) ClearHistory(c *gin.Context) {
	if err := h.historyService.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "search history cleared"})
}

// DeleteHistoryEntry removes one stored search by id.
func (h *HistoryHandler) DeleteHistoryEntry(c *gin.Context) {
	if err := h.historyService.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "search history entry deleted"})
}
