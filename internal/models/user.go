package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user in the system.
type User struct {
	gorm.Model
	Username     string     `gorm:"unique;not null" json:"username"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

type TokenPurpose string

const (
	TokenPurposeRefresh TokenPurpose = "refresh"
)

// Token is a long-lived opaque token bound to a user, e.g. a refresh token.
type Token struct {
	ID        uint         `gorm:"primaryKey"`
	Token     string       `gorm:"uniqueIndex;size:128;not null"`
	UserID    uint         `gorm:"index;not null"`
	Purpose   TokenPurpose `gorm:"size:32;not null"`
	ExpiresAt time.Time    `gorm:"index;not null"`
	CreatedAt time.Time
}
