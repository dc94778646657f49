package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pokecatalog/internal/models"
)

var DB *gorm.DB

func Initialize(dbPath string) error {
	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	log.Println("Database connected successfully")

	// Clean up rows that would violate the unique indexes AutoMigrate adds
	if err := cleanupDuplicatePokedexItems(DB); err != nil {
		return err
	}
	if err := cleanupDuplicateFavorites(DB); err != nil {
		return err
	}

	err = DB.AutoMigrate(
		&models.Profile{},
		&models.Session{},
		&models.SearchHistoryItem{},
		&models.PokedexItem{},
		&models.Favorite{},
		&models.Deck{},
		&models.DeckCard{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
