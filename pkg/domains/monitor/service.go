package monitor

import (
	"context"

	"github.com/happycrm/crm/pkg/entities"
	"github.com/happycrm/crm/pkg/utils"
	"gorm.io/gorm"
)

// Service serves the admin monitor screens: normalized messages per lead plus
// the webhook audit tables. Read-only.
type Service interface {
	MessagesByLead(ctx context.Context, leadID uint, page int) ([]entities.Message, int, error)
	WebhookLogs(ctx context.Context, page int) ([]entities.WebhookLog, int, error)
	WebhookErrors(ctx context.Context, page int) ([]entities.WebhookError, int, error)
	Notifications(ctx context.Context, userID uint, page int) ([]entities.Notification, int, error)
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return &service{
		db: db,
	}
}

func (s *service) MessagesByLead(ctx context.Context, leadID uint, page int) ([]entities.Message, int, error) {
	var messages []entities.Message
	totalPages, err := utils.Pagination(&messages, page, s.db, ctx, "lead_id = ?", leadID)
	return messages, totalPages, err
}

func (s *service) WebhookLogs(ctx context.Context, page int) ([]entities.WebhookLog, int, error) {
	var logs []entities.WebhookLog
	totalPages, err := utils.Pagination(&logs, page, s.db, ctx, "1 = 1")
	return logs, totalPages, err
}

func (s *service) WebhookErrors(ctx context.Context, page int) ([]entities.WebhookError, int, error) {
	var webhookErrors []entities.WebhookError
	totalPages, err := utils.Pagination(&webhookErrors, page, s.db, ctx, "1 = 1")
	return webhookErrors, totalPages, err
}

func (s *service) Notifications(ctx context.Context, userID uint, page int) ([]entities.Notification, int, error) {
	var notifications []entities.Notification
	totalPages, err := utils.Pagination(&notifications, page, s.db, ctx, "user_id = ?", userID)
	return notifications, totalPages, err
}
