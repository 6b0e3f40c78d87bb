package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/pageza/recipe-buddy/backend/internal/models"
)

// Migrate brings the schema up to date. On postgres the pgvector extension is
// installed first so saved recipe embeddings get a native vector column.
func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
			return fmt.Errorf("failed to install pgvector extension: %w", err)
		}
	} else {
		log.Printf("Using GORM auto-migration for %s", db.Dialector.Name())
	}

	if err := db.AutoMigrate(&models.User{}, &models.SavedRecipe{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
