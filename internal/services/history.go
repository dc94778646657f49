package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pokecatalog/internal/models"
)

// historyLimit caps the retained search history at the newest entries.
const historyLimit = 20

// HistoryService persists the search history log. Recording is a best-effort
// side effect of the pipeline: failures are logged, never propagated into the
// search result.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Record appends one entry and prunes beyond the retention cap.
func (s *HistoryService) Record(query string, resultCount int) {
	item := models.SearchHistoryItem{
		ID:          uuid.NewString(),
		Query:       query,
		Timestamp:   time.Now(),
		ResultCount: resultCount,
	}
	if err := s.db.Create(&item).Error; err != nil {
		log.Printf("Search history: failed to record entry: %v", err)
		return
	}

	err := s.db.Exec(`
		DELETE FROM search_history_items
		WHERE id NOT IN (
			SELECT id FROM search_history_items
			ORDER BY timestamp DESC
			LIMIT ?
		)
	`, historyLimit).Error
	if err != nil {
		log.Printf("Search history: failed to prune old entries: %v", err)
	}
}

// List returns the retained entries, newest first.
func (s *HistoryService) List() ([]models.SearchHistoryItem, error) {
	var items []models.SearchHistoryItem
	err := s.db.Order("timestamp DESC").Limit(historyLimit).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Clear removes all history entries.
func (s *HistoryService) Clear() error {
	return s.db.Where("1 = 1").Delete(&models.SearchHistoryItem{}).Error
}

// Remove deletes a single entry by id.
func (s *HistoryService) Remove(id string) error {
	return s.db.Delete(&models.SearchHistoryItem{}, "id = ?", id).Error
}
