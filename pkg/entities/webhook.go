package entities

import (
	"time"

	"gorm.io/gorm"
)

// ProcessedEvent marks a webhook delivery as handled. The unique index on
// EventKey is what makes duplicate suppression atomic under concurrent
// deliveries: the second insert conflicts and affects zero rows.
type ProcessedEvent struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	EventKey    string    `json:"event_key" gorm:"type:varchar(255);uniqueIndex;not null"`
	ProcessedAt time.Time `json:"processed_at" gorm:"not null"`
	ExpiresAt   time.Time `json:"expires_at" gorm:"index;not null"`
}

// WebhookLog is the audit trail of every change received, including kinds the
// pipeline does not process. Unknown fields land here instead of erroring.
type WebhookLog struct {
	gorm.Model
	Source       string    `json:"source" gorm:"type:varchar(50);index"`
	Field        string    `json:"field" gorm:"type:varchar(100);index"`
	EventKey     string    `json:"event_key" gorm:"type:varchar(255);index"`
	RawBody      string    `json:"raw_body" gorm:"type:text"`
	Processed    bool      `json:"processed" gorm:"default:false"`
	ProcessError string    `json:"process_error" gorm:"type:text"`
	ReceivedAt   time.Time `json:"received_at"`
	IPAddress    string    `json:"ip_address" gorm:"type:varchar(45)"`
}

// WebhookError is an append-only record of provider-reported errors, surfaced
// to operators through the monitor API. Rows are never mutated.
type WebhookError struct {
	gorm.Model
	Code       int       `json:"code"`
	Title      string    `json:"title" gorm:"type:varchar(255)"`
	Message    string    `json:"message" gorm:"type:text"`
	Details    string    `json:"details" gorm:"type:text"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Activity is a best-effort per-lead audit entry; losing one never fails the
// parent webhook request.
type Activity struct {
	gorm.Model
	LeadID      uint   `json:"lead_id" gorm:"index;not null"`
	Type        string `json:"type" gorm:"type:varchar(50)"`
	Description string `json:"description" gorm:"type:text"`
}

// Notification alerts the user assigned to a lead about inbound traffic.
type Notification struct {
	gorm.Model
	UserID uint   `json:"user_id" gorm:"index;not null"`
	LeadID *uint  `json:"lead_id"`
	Title  string `json:"title" gorm:"type:varchar(255)"`
	Body   string `json:"body" gorm:"type:text"`
	Read   bool   `json:"read" gorm:"default:false"`
}
