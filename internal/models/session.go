package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is a tracker bearer token held in durable storage on behalf of a
// browser. The browser only ever sees the session ID.
type Session struct {
	ID        uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	Token     string         `gorm:"type:text;not null" json:"-"`
	UserID    int64          `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an ID when none was set.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
