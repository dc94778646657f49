package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/models"
	"pokecatalog/internal/services"
)

type FavoriteHandler struct {
	favoriteService *services.FavoriteService
}

func NewFavoriteHandler(favorites *services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favorites}
}

func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	favorites, err := h.favoriteService.List(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	var req models.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Card.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card id is required"})
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), userID(c), req.Card)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	err := h.favoriteService.Remove(c.Request.Context(), userID(c), c.Param("cardId"))
	if err != nil {
		if errors.Is(err, services.ErrNotFavorite) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "favorite removed"})
}
