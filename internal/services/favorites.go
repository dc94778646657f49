package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pokecatalog/internal/models"
)

var ErrNotFavorite = errors.New("card is not a favorite")

// FavoriteService manages a user's favorite cards.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// List returns a user's favorites, newest first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

// Add marks a card as a favorite. Favoriting a card twice is a no-op that
// returns the existing row.
func (s *FavoriteService) Add(ctx context.Context, userID string, card models.Card) (*models.Favorite, error) {
	var existing models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, card.ID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check favorites: %w", err)
	}

	favorite := models.Favorite{
		UserID:       userID,
		CardID:       card.ID,
		CardName:     card.Name,
		CardImageURL: card.Image,
		CardSet:      card.SetName(),
		CardRarity:   card.Rarity,
		AddedAt:      time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&favorite).Error; err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return &favorite, nil
}

// Remove unfavorites a card.
func (s *FavoriteService) Remove(ctx context.Context, userID, cardID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove favorite: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFavorite
	}
	return nil
}

// Has reports whether the card is favorited by the user.
func (s *FavoriteService) Has(ctx context.Context, userID, cardID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorites: %w", err)
	}
	return count > 0, nil
}
