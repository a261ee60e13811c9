package database

import (
	"github.com/happycrm/crm/pkg/entities"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.Operator{},
		&entities.Lead{},
		&entities.Message{},
		&entities.ProcessedEvent{},
		&entities.WebhookLog{},
		&entities.WebhookError{},
		&entities.Activity{},
		&entities.Notification{},
	)
}
