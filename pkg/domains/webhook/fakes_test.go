package webhook

import (
	"context"

	"github.com/happycrm/crm/pkg/entities"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository for pipeline tests.
type fakeRepo struct {
	messages      []*entities.Message
	leads         []*entities.Lead
	logs          []*entities.WebhookLog
	webhookErrors []*entities.WebhookError
	activities    []*entities.Activity
	notifications []*entities.Notification
	nextID        uint

	failActivity bool
}

func (f *fakeRepo) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) InsertMessage(_ context.Context, message *entities.Message) error {
	for _, m := range f.messages {
		if m.ExternalMessageID == message.ExternalMessageID {
			return gorm.ErrDuplicatedKey
		}
	}
	message.ID = f.id()
	stored := *message
	f.messages = append(f.messages, &stored)
	return nil
}

func (f *fakeRepo) FindMessageByExternalID(_ context.Context, externalID string) (entities.Message, error) {
	for _, m := range f.messages {
		if m.ExternalMessageID == externalID {
			return *m, nil
		}
	}
	return entities.Message{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateMessageStatus(_ context.Context, message *entities.Message) error {
	for i, m := range f.messages {
		if m.ID == message.ID {
			updated := *message
			f.messages[i] = &updated
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateMessageLead(_ context.Context, messageID uint, leadID uint) error {
	for _, m := range f.messages {
		if m.ID == messageID {
			id := leadID
			m.LeadID = &id
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindLeadByPhone(_ context.Context, candidates []string) (entities.Lead, error) {
	for _, l := range f.leads {
		for _, candidate := range candidates {
			if l.ContactPhone == candidate {
				return *l, nil
			}
		}
	}
	return entities.Lead{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateLead(_ context.Context, lead *entities.Lead) error {
	lead.ID = f.id()
	stored := *lead
	f.leads = append(f.leads, &stored)
	return nil
}

func (f *fakeRepo) InsertWebhookLog(_ context.Context, log *entities.WebhookLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeRepo) InsertWebhookError(_ context.Context, webhookErr *entities.WebhookError) error {
	f.webhookErrors = append(f.webhookErrors, webhookErr)
	return nil
}

func (f *fakeRepo) InsertActivity(_ context.Context, activity *entities.Activity) error {
	if f.failActivity {
		return gorm.ErrInvalidDB
	}
	f.activities = append(f.activities, activity)
	return nil
}

func (f *fakeRepo) InsertNotification(_ context.Context, notification *entities.Notification) error {
	f.notifications = append(f.notifications, notification)
	return nil
}

// fakeDedup mimics the atomic set-if-not-exists marker store.
type fakeDedup struct {
	seen map[string]bool
}

func newFakeDedup() *fakeDedup {
	return &fakeDedup{seen: map[string]bool{}}
}

func (d *fakeDedup) IsDuplicate(_ context.Context, key string) bool {
	if d.seen[key] {
		return true
	}
	d.seen[key] = true
	return false
}
