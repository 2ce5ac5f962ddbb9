package models

import (
	"time"

	"gorm.io/gorm"
)

// Quote is a service request submitted through the quote form.
// Exactly one of UserID and GuestID is set at creation and never reassigned.
type Quote struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	FullName          string         `gorm:"not null" json:"full_name"`
	Email             string         `gorm:"not null;index" json:"email"`
	Phone             string         `gorm:"not null" json:"phone"`
	Address           string         `gorm:"not null" json:"address"`
	Zip               string         `gorm:"not null" json:"zip"`
	ServiceType       string         `gorm:"not null" json:"service_type"`
	PreferredDate     time.Time      `gorm:"not null" json:"preferred_date"`
	AdditionalDetails *string        `gorm:"type:text" json:"additional_details"`
	PhotoKey          *string        `json:"photo_key,omitempty"`           // nullable, storage key of an attached photo
	PhotoURL          *string        `gorm:"-" json:"photo_url,omitempty"`  // computed from PhotoKey on read
	UserID            *uint          `gorm:"index" json:"user_id"`          // set when submitted with a user session
	User              *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestID           *uint          `gorm:"index" json:"guest_id"`         // set when submitted anonymously
	Guest             *Guest         `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// OwnerKind returns "user" or "guest" depending on which identity owns the quote
func (q *Quote) OwnerKind() string {
	if q.UserID != nil {
		return "user"
	}
	return "guest"
}
