package models

import (
	"time"
)

// Guest is a quote requester without an account. At most one row exists per
// email; the unique index is what enforces it.
type Guest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"not null" json:"name"`
	Quotes    []Quote   `gorm:"foreignKey:GuestID" json:"quotes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Guest model
func (Guest) TableName() string {
	return "guests"
}
