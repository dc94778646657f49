package models

import (
	"time"
)

// Deck is a user-built deck referencing catalog cards by id.
type Deck struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	CoverImage  string     `json:"cover_image"`
	Cards       []DeckCard `json:"cards" gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type DeckCard struct {
	ID       uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	DeckID   string `json:"-" gorm:"not null;uniqueIndex:idx_deck_card"`
	CardID   string `json:"card_id" gorm:"not null;uniqueIndex:idx_deck_card"`
	Quantity int    `json:"quantity" gorm:"default:1"`
}

type CreateDeckRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateDeckRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
}

type DeckCardRequest struct {
	CardID   string `json:"card_id" binding:"required"`
	Quantity int    `json:"quantity"`
}
