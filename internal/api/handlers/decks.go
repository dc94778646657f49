package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pokecatalog/internal/models"
	"pokecatalog/internal/services"
)

type DeckHandler struct {
	deckService *services.DeckService
}

func NewDeckHandler(decks *services.DeckService) *DeckHandler {
	return &DeckHandler{deckService: decks}
}

func (h *DeckHandler) GetDecks(c *gin.Context) {
	decks, err := h.deckService.List(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"decks": decks})
}

func (h *DeckHandler) GetDeck(c *gin.Context) {
	deck, err := h.deckService.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (h *DeckHandler) CreateDeck(c *gin.Context) {
	var req models.CreateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := h.deckService.Create(c.Request.Context(), userID(c), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, deck)
}

func (h *DeckHandler) UpdateDeck(c *gin.Context) {
	var req models.UpdateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := h.deckService.Update(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (h *DeckHandler) DeleteDeck(c *gin.Context) {
	if err := h.deckService.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deck deleted"})
}

func (h *DeckHandler) AddCard(c *gin.Context) {
	var req models.DeckCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	deck, err := h.deckService.AddCard(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

// SetCardQuantity pins a deck card's quantity from the request body. A
// quantity of zero or below removes the card.
func (h *DeckHandler) SetCardQuantity(c *gin.Context) {
	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
		return
	}

	deck, err := h.deckService.SetCardQuantity(c.Request.Context(), userID(c), c.Param("id"), c.Param("cardId"), *req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (h *DeckHandler) RemoveCard(c *gin.Context) {
	deck, err := h.deckService.RemoveCard(c.Request.Context(), userID(c), c.Param("id"), c.Param("cardId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deck)
}

func (h *DeckHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDeckNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCardNotInDeck):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
