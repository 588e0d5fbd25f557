package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmailSubscriber is a newsletter signup. Email is stored lowercased
// and trimmed; the unique index makes re-subscribing a no-op.
type EmailSubscriber struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:254;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *EmailSubscriber) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
