package models

import (
	"time"

	"gorm.io/gorm"
)

// Employee represents a staff account used on the employee dashboard
type Employee struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Position     string         `gorm:"not null" json:"position"`
	Role         Role           `gorm:"not null;default:'EMPLOYEE'" json:"role"` // EMPLOYEE or ADMIN
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Employee model
func (Employee) TableName() string {
	return "employees"
}
