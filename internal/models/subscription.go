package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusPastDue  = "past_due"
	StatusInactive = "inactive"
)

// SubscriptionPeriod is the window granted to a new subscription.
const SubscriptionPeriod = 30 * 24 * time.Hour

type Subscription struct {
	ID                   string     `gorm:"primaryKey;size:36" json:"id"`
	UserID               string     `gorm:"size:36;not null;index" json:"user_id"`
	ProductID            string     `gorm:"size:36;not null;index" json:"product_id"`
	Status               string     `gorm:"size:20;not null;default:'inactive'" json:"status"`
	StartDate            time.Time  `gorm:"not null" json:"start_date"`
	EndDate              *time.Time `json:"end_date"`
	StripeSubscriptionID *string    `gorm:"size:255;index" json:"stripe_subscription_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	User                 Profile    `gorm:"foreignKey:UserID" json:"-"`
	Product              Product    `gorm:"foreignKey:ProductID" json:"-"`
}

func (s *Subscription) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusCanceled, StatusPastDue, StatusInactive:
		return true
	}
	return false
}
