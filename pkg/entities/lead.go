package entities

import (
	"gorm.io/gorm"
)

// Lead is owned by the wider CRM; the webhook pipeline only reads it by phone
// number and creates it when an inbound message arrives from an unknown sender.
type Lead struct {
	gorm.Model
	ContactPhone   string `json:"contact_phone" gorm:"type:varchar(32);index;not null"`
	Name           string `json:"name" gorm:"type:varchar(255)"`
	Source         string `json:"source" gorm:"type:varchar(50)"`
	AssignedUserID *uint  `json:"assigned_user_id"`
}
