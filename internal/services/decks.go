package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pokecatalog/internal/models"
)

var (
	ErrDeckNotFound  = errors.New("deck not found")
	ErrCardNotInDeck = errors.New("card is not in the deck")
)

// DeckService manages user-built decks.
type DeckService struct {
	db *gorm.DB
}

func NewDeckService(db *gorm.DB) *DeckService {
	return &DeckService{db: db}
}

// List returns a user's decks with their cards, newest first.
func (s *DeckService) List(ctx context.Context, userID string) ([]models.Deck, error) {
	var decks []models.Deck
	err := s.db.WithContext(ctx).
		Preload("Cards").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&decks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return decks, nil
}

// Get loads one deck with its cards. Ownership is checked: a deck id
// belonging to another user reads as not found.
func (s *DeckService) Get(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.WithContext(ctx).
		Preload("Cards").
		Where("id = ? AND user_id = ?", deckID, userID).
		First(&deck).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	return &deck, nil
}

// Create makes an empty deck.
func (s *DeckService) Create(ctx context.Context, userID string, req models.CreateDeckRequest) (*models.Deck, error) {
	now := time.Now()
	deck := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Cards:       []models.DeckCard{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.WithContext(ctx).Create(&deck).Error; err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}
	return &deck, nil
}

// Update applies partial metadata changes to a deck.
func (s *DeckService) Update(ctx context.Context, userID, deckID string, req models.UpdateDeckRequest) (*models.Deck, error) {
	deck, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		deck.Name = *req.Name
	}
	if req.Description != nil {
		deck.Description = *req.Description
	}
	if req.CoverImage != nil {
		deck.CoverImage = *req.CoverImage
	}
	deck.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(deck).Error; err != nil {
		return nil, fmt.Errorf("failed to update deck: %w", err)
	}
	return deck, nil
}

// Delete removes a deck and its cards.
func (s *DeckService) Delete(ctx context.Context, userID, deckID string) error {
	deck, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Select("Cards").Delete(deck).Error; err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

// AddCard puts a card in the deck, merging quantities if it's already there.
func (s *DeckService) AddCard(ctx context.Context, userID, deckID string, req models.DeckCardRequest) (*models.Deck, error) {
	deck, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var entry models.DeckCard
	err = s.db.WithContext(ctx).
		Where("deck_id = ? AND card_id = ?", deckID, req.CardID).
		First(&entry).Error
	switch {
	case err == nil:
		entry.Quantity += quantity
		if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
			return nil, fmt.Errorf("failed to update deck card: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		entry = models.DeckCard{DeckID: deckID, CardID: req.CardID, Quantity: quantity}
		if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
			return nil, fmt.Errorf("failed to add deck card: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to check deck: %w", err)
	}

	s.touch(ctx, deck)
	return s.Get(ctx, userID, deckID)
}

// SetCardQuantity pins a card's quantity. Zero or below removes the card.
func (s *DeckService) SetCardQuantity(ctx context.Context, userID, deckID, cardID string, quantity int) (*models.Deck, error) {
	deck, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.removeCard(ctx, deckID, cardID); err != nil {
			return nil, err
		}
	} else {
		var entry models.DeckCard
		err = s.db.WithContext(ctx).
			Where("deck_id = ? AND card_id = ?", deckID, cardID).
			First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCardNotInDeck
			}
			return nil, fmt.Errorf("failed to check deck: %w", err)
		}
		entry.Quantity = quantity
		if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
			return nil, fmt.Errorf("failed to update deck card: %w", err)
		}
	}

	s.touch(ctx, deck)
	return s.Get(ctx, userID, deckID)
}

// RemoveCard takes a card out of the deck entirely.
func (s *DeckService) RemoveCard(ctx context.Context, userID, deckID, cardID string) (*models.Deck, error) {
	deck, err := s.Get(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}
	if err := s.removeCard(ctx, deckID, cardID); err != nil {
		return nil, err
	}
	s.touch(ctx, deck)
	return s.Get(ctx, userID, deckID)
}

func (s *DeckService) removeCard(ctx context.Context, deckID, cardID string) error {
	result := s.db.WithContext(ctx).
		Where("deck_id = ? AND card_id = ?", deckID, cardID).
		Delete(&models.DeckCard{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove deck card: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCardNotInDeck
	}
	return nil
}

func (s *DeckService) touch(ctx context.Context, deck *models.Deck) {
	s.db.WithContext(ctx).Model(deck).Update("updated_at", time.Now())
}
