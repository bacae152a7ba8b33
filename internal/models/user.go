// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User types recognized by the platform.
const (
	UserTypeAdopter = "adotante"
	UserTypeShelter = "abrigo"
)

// DefaultDisplayName is used when a user has neither a display name nor
// first/last names on record.
const DefaultDisplayName = "Usuário"

// User represents an account on the adoption platform.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	DisplayName  string    `json:"display_name"`
	ProfilePhoto string    `json:"profile_photo,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	UserType     string    `gorm:"default:adotante" json:"user_type"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	State        string    `json:"state,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns an opaque string ID when none was provided.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ResolveDisplayName returns the name shown on publications and comments:
// the explicit display name, then "first last", then DefaultDisplayName.
func (u *User) ResolveDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	return DefaultDisplayName
}
