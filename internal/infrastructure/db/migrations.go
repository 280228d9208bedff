package db

import (
	"github.com/lumacrm/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Application{},
		&domain.Task{},
	)
	if err != nil {
		return err
	}

	return createCustomIndexes(db)
}

func createCustomIndexes(db *gorm.DB) error {
	// The today query filters on due_at and orders by it; a composite index
	// keeps the range scan ordered.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_due_at_status
		ON tasks (due_at, status)
	`).Error; err != nil {
		return err
	}

	return nil
}
