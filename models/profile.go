package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile holds contact details for a user, one per user
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Firstname string         `gorm:"not null" json:"firstname"`
	Lastname  string         `gorm:"not null" json:"lastname"`
	City      string         `gorm:"not null" json:"city"`
	State     string         `gorm:"not null" json:"state"`
	Zip       string         `gorm:"not null" json:"zip"`
	Phone     string         `json:"phone"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profiles"
}
