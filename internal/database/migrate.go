package database

import (
	"fmt"

	"github.com/kwiens/seeds/internal/models"
	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Seed{},
		&models.SeedApproval{},
		&models.SeedSupport{},
		&models.AdminEmail{},
	}
}

// Migrate creates or updates the schema, including the enum check constraints
// and the (seed_id, user_id) uniqueness on supports.
func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrating %T: %w", model, err)
		}
	}
	log.Info("Database schema migrated")
	return nil
}
