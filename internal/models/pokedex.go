package models

import (
	"time"
)

// PokedexItem is one owned card in a user's pokédex. Card attributes are
// denormalized at add time so the collection stays browsable without
// re-fetching from TCGdex.
type PokedexItem struct {
	ID           uint     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string   `json:"user_id" gorm:"not null;uniqueIndex:idx_user_card"`
	CardID       string   `json:"card_id" gorm:"not null;uniqueIndex:idx_user_card"`
	CardName     string   `json:"card_name" gorm:"not null"`
	CardImageURL string   `json:"card_image_url"`
	CardSet      string   `json:"card_set"`
	CardRarity   string   `json:"card_rarity"`
	CardType     string   `json:"card_type"`
	HP           *int     `json:"hp"`
	MarketPrice  *float64 `json:"market_price"`
	Quantity     int      `json:"quantity" gorm:"default:1"`
	Notes        string   `json:"notes"`
	AddedAt      time.Time `json:"added_at"`
}

type PokedexStats struct {
	TotalCards  int     `json:"total_cards"`
	UniqueCards int     `json:"unique_cards"`
	TotalValue  float64 `json:"total_value"`
}

type AddPokedexRequest struct {
	Card     Card   `json:"card" binding:"required"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`
}

type UpdatePokedexRequest struct {
	Quantity *int    `json:"quantity"`
	Notes    *string `json:"notes"`
}
