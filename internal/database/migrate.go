package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/pageza/proteinpal/internal/models"
)

// Migrate creates or updates the session store schema.
func Migrate(db *gorm.DB) error {
	log.Printf("[Database] Running auto-migration on %s", db.Dialector.Name())
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return fmt.Errorf("failed to migrate session store: %w", err)
	}
	return nil
}
