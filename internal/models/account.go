package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account is an email/password credential. It is never serialized.
type Account struct {
	ID           string    `gorm:"primaryKey;size:36" json:"-"`
	Email        string    `gorm:"not null;size:255;uniqueIndex" json:"-"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

func (a *Account) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
