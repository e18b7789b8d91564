package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/alchemorsel-genai/backend/internal/history"
)

// Migrate creates or updates the history schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&history.GenerationRecord{}); err != nil {
		return fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return nil
}
