package models

import (
	"time"
)

// Favorite marks a catalog card as a user favorite. Display attributes are
// denormalized so the favorites list renders without upstream calls.
type Favorite struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_favorite"`
	CardID       string    `json:"card_id" gorm:"not null;uniqueIndex:idx_user_favorite"`
	CardName     string    `json:"card_name"`
	CardImageURL string    `json:"card_image_url"`
	CardSet      string    `json:"card_set"`
	CardRarity   string    `json:"card_rarity"`
	AddedAt      time.Time `json:"added_at"`
}

type AddFavoriteRequest struct {
	Card Card `json:"card" binding:"required"`
}
