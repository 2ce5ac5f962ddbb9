package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer account
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"` // always stored lowercase
	PasswordHash string         `gorm:"not null" json:"-"`
	IsOnline     bool           `gorm:"not null;default:false" json:"is_online"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	Role         Role           `gorm:"not null;default:'USER'" json:"role"`
	Profile      *Profile       `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Quotes       []Quote        `gorm:"foreignKey:UserID" json:"quotes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// CountOnlineUsers returns how many users are currently flagged online
func CountOnlineUsers(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&User{}).Where("is_online = ?", true).Count(&count).Error
	return count, err
}
