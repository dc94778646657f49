package models

import (
	"time"
)

// SearchHistoryItem records one completed search: the raw query as typed, when
// it ran, and how many cards it produced (0 for failures and no-matches).
type SearchHistoryItem struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Query       string    `json:"query" gorm:"not null"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
	ResultCount int       `json:"result_count"`
}
