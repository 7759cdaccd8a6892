// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the access level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the two supported roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents a registered account.
// Password and the reset-token fields are never serialized; every API
// response built from this struct is already a sanitized projection.
type User struct {
	ID                     uint           `gorm:"primaryKey" json:"id"`
	Name                   string         `gorm:"not null" json:"name"`
	Alias                  string         `gorm:"uniqueIndex;not null" json:"alias"`
	Email                  string         `gorm:"uniqueIndex;not null" json:"email"`
	DateOfBirth            time.Time      `gorm:"not null" json:"dateOfBirth"`
	Address                string         `gorm:"not null" json:"address"`
	Password               string         `gorm:"not null" json:"-"`
	ProfilePhoto           string         `gorm:"type:text" json:"profilePhoto,omitempty"`
	Role                   Role           `gorm:"type:varchar(16);not null;default:user" json:"role"`
	LastLogin              *time.Time     `json:"lastLogin,omitempty"`
	IsVerified             bool           `gorm:"not null;default:false" json:"isVerified"`
	ResetPasswordToken     string         `json:"-"`
	ResetPasswordExpiresAt *time.Time     `json:"-"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	DeletedAt              gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserSummary is the display projection joined onto ideas (author and
// liking users). It reads from the users table.
type UserSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Alias        string `json:"alias"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// TableName maps the summary projection onto the users table.
func (UserSummary) TableName() string {
	return "users"
}
