package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Contact is an inbound contact-form submission. Anyone may create one;
// only operators transition contact_completed. Submissions are never
// deleted.
type Contact struct {
	ID               string `json:"id" gorm:"type:uuid;primaryKey"`
	Name             string `json:"name" gorm:"size:200;not null"`
	Email            string `json:"email" gorm:"size:320;not null;index"`
	Subject          string `json:"subject" gorm:"size:255;not null"`
	Message          string `json:"message" gorm:"type:text;not null"`
	IsExistingUser   bool   `json:"is_existing_user"`
	LinkedAccountID  *uint  `json:"linked_account_id"`
	ContactCompleted bool   `json:"contact_completed" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	LinkedAccount *User `json:"linked_account,omitempty" gorm:"foreignKey:LinkedAccountID"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
