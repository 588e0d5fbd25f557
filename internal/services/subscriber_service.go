package services

import (
	"errors"
	"fmt"
	"strings"

	"dotmd/internal/models"

	"gorm.io/gorm"
)

type SubscriberService struct {
	db   *gorm.DB
	mail *MailService
}

func NewSubscriberService(db *gorm.DB, mail *MailService) *SubscriberService {
	return &SubscriberService{db: db, mail: mail}
}

// Subscribe stores a normalized email address. An address that is
// already subscribed is success, not an error - the caller cannot tell
// the difference, so the endpoint cannot be used to probe the list.
func (s *SubscriberService) Subscribe(email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))

	sub := models.EmailSubscriber{Email: normalized}
	if err := s.db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create subscriber: %w", err)
	}

	s.mail.SendWelcome(normalized)
	return nil
}
