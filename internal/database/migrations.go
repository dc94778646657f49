package database

import (
	"log"

	"gorm.io/gorm"
)

// cleanupDuplicatePokedexItems merges duplicate (user_id, card_id) pokédex
// rows before the unique constraint is added. Quantities are summed onto the
// newest row, older rows are dropped. Runs BEFORE AutoMigrate.
func cleanupDuplicatePokedexItems(db *gorm.DB) error {
	if !db.Migrator().HasTable("pokedex_items") {
		return nil
	}

	// Fold quantities from the older duplicates into the newest row
	result := db.Exec(`
		UPDATE pokedex_items
		SET quantity = (
			SELECT SUM(quantity)
			FROM pokedex_items p2
			WHERE p2.user_id = pokedex_items.user_id
			  AND p2.card_id = pokedex_items.card_id
		)
		WHERE id IN (
			SELECT MAX(id)
			FROM pokedex_items
			GROUP BY user_id, card_id
			HAVING COUNT(*) > 1
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	result = db.Exec(`
		DELETE FROM pokedex_items
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM pokedex_items
			GROUP BY user_id, card_id
		)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Merged %d duplicate pokedex_items entries", result.RowsAffected)
	}

	// Normalize non-positive quantities left by old clients
	db.Exec(`UPDATE pokedex_items SET quantity = 1 WHERE quantity IS NULL OR quantity < 1`)

	return nil
}

// cleanupDuplicateFavorites removes duplicate (user_id, card_id) favorites,
// keeping the newest row. Runs BEFORE AutoMigrate.
func cleanupDuplicateFavorites(db *gorm.DB) error {
	if !db.Migrator().HasTable("favorites") {
		return nil
	}

	result := db.Exec(`
		DELETE FROM favorites
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM favorites
			GROUP BY user_id, card_id
		)
	`)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d duplicate favorites entries", result.RowsAffected)
	}
	return nil
}

// RunMigrations runs custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	if err := pruneExpiredSessions(db); err != nil {
		return err
	}
	if err := pruneSearchHistory(db); err != nil {
		return err
	}
	return nil
}

func pruneExpiredSessions(db *gorm.DB) error {
	result := db.Exec(`DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`)
	if result.Error != nil {
		log.Printf("Warning: failed to prune expired sessions: %v", result.Error)
		return nil
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d expired sessions", result.RowsAffected)
	}
	return nil
}

// pruneSearchHistory trims the history table to its retention cap, keeping
// the newest entries. Old builds had no cap, so long-lived databases can
// carry more rows than the service would ever return.
func pruneSearchHistory(db *gorm.DB) error {
	result := db.Exec(`
		DELETE FROM search_history_items
		WHERE id NOT IN (
			SELECT id
			FROM search_history_items
			ORDER BY timestamp DESC
			LIMIT 20
		)
	`)
	if result.Error != nil {
		log.Printf("Warning: failed to prune search history: %v", result.Error)
		return nil
	}
	if result.RowsAffected > 0 {
		log.Printf("Pruned %d old search history entries", result.RowsAffected)
	}
	return nil
}
