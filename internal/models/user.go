package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local face of the external identity provider. Accounts
// are created on first OAuth login; there is no password auth.
type User struct {
	ID                string    `gorm:"type:uuid;primaryKey" json:"id"`
	GoogleID          string    `gorm:"uniqueIndex;not null" json:"-"`
	Email             string    `gorm:"index;not null" json:"email"`
	PreferredUsername string    `gorm:"size:60" json:"preferred_username"` // optional display handle
	AvatarURL         string    `json:"avatar_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName resolves what to show as the author of a submission:
// preferred username if set, else the provider email, else "anonymous".
func (u *User) DisplayName() string {
	if u.PreferredUsername != "" {
		return u.PreferredUsername
	}
	if u.Email != "" {
		return u.Email
	}
	return "anonymous"
}
