package models

import (
	"strings"
	"time"
)

// User is a person that can hold one or more roles on initiatives.
// Email is the natural deduplication key when present.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email      string    `gorm:"type:varchar(255);index" json:"email"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	Department string    `gorm:"type:varchar(100)" json:"department"`
	Function   string    `gorm:"type:varchar(100)" json:"function"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
