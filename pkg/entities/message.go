package entities

import (
	"time"

	"gorm.io/gorm"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

const ChannelWhatsApp = "whatsapp"

const (
	ContentTypeText        = "text"
	ContentTypeImage       = "image"
	ContentTypeVideo       = "video"
	ContentTypeDocument    = "document"
	ContentTypeAudio       = "audio"
	ContentTypeLocation    = "location"
	ContentTypeInteractive = "interactive"
	ContentTypeUnknown     = "unknown"
)

const (
	StatusReceived  = "received"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusRead      = "read"
	StatusFailed    = "failed"
)

// Message is the canonical record for every WhatsApp message the CRM knows
// about, inbound or outbound. ExternalMessageID is the provider message id and
// carries the idempotency guarantee: duplicate inserts hit the unique index.
type Message struct {
	gorm.Model
	ExternalMessageID string `json:"external_message_id" gorm:"type:varchar(255);uniqueIndex;not null"`
	LeadID            *uint  `json:"lead_id" gorm:"index"`
	Direction         string `json:"direction" gorm:"type:varchar(10);not null"`
	Channel           string `json:"channel" gorm:"type:varchar(20);not null;default:whatsapp"`
	ContentType       string `json:"content_type" gorm:"type:varchar(20);not null"`

	// Normalized content, one group populated per content type
	Body            string  `json:"body" gorm:"type:text"`
	MediaID         string  `json:"media_id" gorm:"type:varchar(255)"`
	MediaMimeType   string  `json:"media_mime_type" gorm:"type:varchar(100)"`
	MediaSha256     string  `json:"media_sha256" gorm:"type:varchar(100)"`
	MediaCaption    string  `json:"media_caption" gorm:"type:text"`
	Filename        string  `json:"filename" gorm:"type:varchar(255)"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	LocationName    string  `json:"location_name" gorm:"type:varchar(255)"`
	LocationAddress string  `json:"location_address" gorm:"type:text"`
	RawContent      string  `json:"raw_content" gorm:"type:text"`

	FromNumber    string `json:"from_number" gorm:"type:varchar(32);index"`
	ToNumber      string `json:"to_number" gorm:"type:varchar(32)"`
	PhoneNumberID string `json:"phone_number_id" gorm:"type:varchar(64)"`

	Status string `json:"status" gorm:"type:varchar(20);not null"`

	// Each timestamp is set at most once by the status reconciler
	ReceivedAt  *time.Time `json:"received_at"`
	SentAt      *time.Time `json:"sent_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	ReadAt      *time.Time `json:"read_at"`
	FailedAt    *time.Time `json:"failed_at"`

	// Conversation and pricing metadata from status notifications
	ConversationID        string     `json:"conversation_id" gorm:"type:varchar(255)"`
	ConversationOrigin    string     `json:"conversation_origin" gorm:"type:varchar(50)"`
	ConversationExpiresAt *time.Time `json:"conversation_expires_at"`
	PricingModel          string     `json:"pricing_model" gorm:"type:varchar(50)"`
	PricingCategory       string     `json:"pricing_category" gorm:"type:varchar(50)"`
	Billable              bool       `json:"billable" gorm:"default:false"`

	FailureCode    int    `json:"failure_code"`
	FailureTitle   string `json:"failure_title" gorm:"type:varchar(255)"`
	FailureDetails string `json:"failure_details" gorm:"type:text"`

	// Relations
	Lead *Lead `json:"lead,omitempty" gorm:"foreignKey:LeadID"`
}
