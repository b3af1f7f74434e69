package models

import (
	"strings"
	"time"
)

// InitiativeUser links a user to an initiative under one role.
// At most one row per (initiative, role) has IsPrimary set; the
// idx_initiative_users_primary partial unique index enforces it.
type InitiativeUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InitiativeID uint      `gorm:"not null;index" json:"initiative_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	UserTypeID   uint      `gorm:"not null" json:"user_type_id"`
	IsPrimary    bool      `gorm:"not null;default:false" json:"is_primary"`
	AssignedAt   time.Time `gorm:"not null" json:"assigned_at"`

	Initiative *Initiative `gorm:"foreignKey:InitiativeID;constraint:OnDelete:CASCADE" json:"-"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	UserType   *UserType   `gorm:"foreignKey:UserTypeID" json:"user_type,omitempty"`
}

func (InitiativeUser) TableName() string { return "initiative_users" }

// InitiativeUserView is the flattened association returned with an initiative.
type InitiativeUserView struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Department string    `json:"department"`
	Function   string    `json:"function"`
	TypeName   string    `json:"type_name"`
	IsPrimary  bool      `json:"is_primary"`
	AssignedAt time.Time `json:"assigned_at"`
}

func (v InitiativeUserView) FullName() string {
	return strings.TrimSpace(v.FirstName + " " + v.LastName)
}

// View flattens a preloaded association.
func (iu InitiativeUser) View() InitiativeUserView {
	v := InitiativeUserView{
		ID:         iu.ID,
		UserID:     iu.UserID,
		IsPrimary:  iu.IsPrimary,
		AssignedAt: iu.AssignedAt,
	}
	if iu.User != nil {
		v.FirstName = iu.User.FirstName
		v.LastName = iu.User.LastName
		v.Email = iu.User.Email
		v.Phone = iu.User.Phone
		v.Department = iu.User.Department
		v.Function = iu.User.Function
	}
	if iu.UserType != nil {
		v.TypeName = iu.UserType.TypeName
	}
	return v
}
