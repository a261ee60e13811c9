package entities

import (
	"gorm.io/gorm"
)

// Operator is a CRM staff account with access to the webhook monitor API.
type Operator struct {
	gorm.Model
	Email    string `json:"email" gorm:"unique;not null"`
	Password string `json:"password" gorm:"not null"`
	Name     string `json:"name" gorm:"type:varchar(255);not null"`
	Surname  string `json:"surname" gorm:"type:varchar(255)"`
	Phone    string `json:"phone" gorm:"type:varchar(20)"`
}
