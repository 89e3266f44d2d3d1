// Package models contains data models for the review service.
package models

import (
	"strings"
	"time"
)

// ReservedUsername cannot be registered because it names the current-user
// endpoint.
const ReservedUsername = "me"

// User represents an account that can review and comment on titles.
type User struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	Username         string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email            string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	FirstName        string    `json:"first_name" gorm:"size:150"`
	LastName         string    `json:"last_name" gorm:"size:150"`
	Bio              string    `json:"bio" gorm:"type:text"`
	Role             Role      `json:"role" gorm:"size:25;not null;default:user"`
	ConfirmationCode string    `json:"-" gorm:"size:60"`
	IsSuperuser      bool      `json:"-" gorm:"not null;default:false"`
	IsStaff          bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// IsAdmin is true for the admin role and for operator accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsSuperuser || u.IsStaff
}

// IsModerator is true exactly when the role is moderator.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}

// IsReservedUsername reports whether name collides with ReservedUsername,
// ignoring case.
func IsReservedUsername(name string) bool {
	return strings.EqualFold(name, ReservedUsername)
}
