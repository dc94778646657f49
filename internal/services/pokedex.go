package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"pokecatalog/internal/models"
)

var ErrNotInPokedex = errors.New("card is not in the pokédex")

// PokedexService manages a user's owned-card collection.
type PokedexService struct {
	db *gorm.DB
}

func NewPokedexService(db *gorm.DB) *PokedexService {
	return &PokedexService{db: db}
}

// List returns a user's pokédex, newest additions first.
func (s *PokedexService) List(ctx context.Context, userID string) ([]models.PokedexItem, error) {
	var items []models.PokedexItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pokédex: %w", err)
	}
	return items, nil
}

// Add records a card in the pokédex. Adding a card already present merges
// quantities instead of creating a duplicate row.
func (s *PokedexService) Add(ctx context.Context, userID string, req models.AddPokedexRequest) (*models.PokedexItem, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var item models.PokedexItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, req.Card.ID).
		First(&item).Error
	if err == nil {
		item.Quantity += quantity
		if req.Notes != "" {
			item.Notes = req.Notes
		}
		if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update pokédex entry: %w", err)
		}
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pokédex: %w", err)
	}

	item = models.PokedexItem{
		UserID:       userID,
		CardID:       req.Card.ID,
		CardName:     req.Card.Name,
		CardImageURL: req.Card.Image,
		CardSet:      req.Card.SetName(),
		CardRarity:   req.Card.Rarity,
		CardType:     strings.Join(req.Card.Types, ", "),
		Quantity:     quantity,
		Notes:        req.Notes,
		AddedAt:      time.Now(),
	}
	if hp, ok := req.Card.HPValue(); ok {
		item.HP = &hp
	}
	if req.Card.MarketPrices != nil {
		price := req.Card.MarketPrices.Market
		item.MarketPrice = &price
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to add to pokédex: %w", err)
	}
	return &item, nil
}

// Update applies partial changes to an owned card. Setting quantity to zero
// or below removes the entry.
func (s *PokedexService) Update(ctx context.Context, userID, cardID string, req models.UpdatePokedexRequest) (*models.PokedexItem, error) {
	var item models.PokedexItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotInPokedex
		}
		return nil, fmt.Errorf("failed to load pokédex entry: %w", err)
	}

	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			if err := s.db.WithContext(ctx).Delete(&item).Error; err != nil {
				return nil, fmt.Errorf("failed to remove pokédex entry: %w", err)
			}
			return nil, nil
		}
		item.Quantity = *req.Quantity
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to update pokédex entry: %w", err)
	}
	return &item, nil
}

// Remove deletes a card from the pokédex.
func (s *PokedexService) Remove(ctx context.Context, userID, cardID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.PokedexItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove from pokédex: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotInPokedex
	}
	return nil
}

// Has reports whether the card is in the user's pokédex.
func (s *PokedexService) Has(ctx context.Context, userID, cardID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.PokedexItem{}).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pokédex: %w", err)
	}
	return count > 0, nil
}

// Stats aggregates counts and estimated value over a user's pokédex.
func (s *PokedexService) Stats(ctx context.Context, userID string) (*models.PokedexStats, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &models.PokedexStats{UniqueCards: len(items)}
	for _, item := range items {
		stats.TotalCards += item.Quantity
		if item.MarketPrice != nil {
			stats.TotalValue += *item.MarketPrice * float64(item.Quantity)
		}
	}
	return stats, nil
}
