package webhook

import (
	"context"

	"github.com/happycrm/crm/pkg/entities"
	"gorm.io/gorm"
)

// Repository is the only point of contact between the webhook pipeline and the
// database. Every method is an independent unit of work: there is no
// transaction spanning normalization, lead creation and audit logging, so a
// partial failure leaves the request recoverable instead of fully failed.
type Repository interface {
	InsertMessage(ctx context.Context, message *entities.Message) error
	FindMessageByExternalID(ctx context.Context, externalID string) (entities.Message, error)
	UpdateMessageStatus(ctx context.Context, message *entities.Message) error
	UpdateMessageLead(ctx context.Context, messageID uint, leadID uint) error
	FindLeadByPhone(ctx context.Context, candidates []string) (entities.Lead, error)
	CreateLead(ctx context.Context, lead *entities.Lead) error
	InsertWebhookLog(ctx context.Context, log *entities.WebhookLog) error
	InsertWebhookError(ctx context.Context, webhookErr *entities.WebhookError) error
	InsertActivity(ctx context.Context, activity *entities.Activity) error
	InsertNotification(ctx context.Context, notification *entities.Notification) error
}

type repository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) InsertMessage(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *repository) FindMessageByExternalID(ctx context.Context, externalID string) (entities.Message, error) {
	var message entities.Message
	err := r.db.WithContext(ctx).Where("external_message_id = ?", externalID).First(&message).Error
	return message, err
}

func (r *repository) UpdateMessageStatus(ctx context.Context, message *entities.Message) error {
	return r.db.WithContext(ctx).Save(message).Error
}

func (r *repository) UpdateMessageLead(ctx context.Context, messageID uint, leadID uint) error {
	return r.db.WithContext(ctx).Model(&entities.Message{}).Where("id = ?", messageID).Update("lead_id", leadID).Error
}

func (r *repository) FindLeadByPhone(ctx context.Context, candidates []string) (entities.Lead, error) {
	var lead entities.Lead
	err := r.db.WithContext(ctx).Where("contact_phone IN ?", candidates).First(&lead).Error
	return lead, err
}

func (r *repository) CreateLead(ctx context.Context, lead *entities.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *repository) InsertWebhookLog(ctx context.Context, log *entities.WebhookLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) InsertWebhookError(ctx context.Context, webhookErr *entities.WebhookError) error {
	return r.db.WithContext(ctx).Create(webhookErr).Error
}

func (r *repository) InsertActivity(ctx context.Context, activity *entities.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *repository) InsertNotification(ctx context.Context, notification *entities.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}
