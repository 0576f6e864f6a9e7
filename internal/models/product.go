package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID            string                      `gorm:"primaryKey;size:36" json:"id"`
	Name          string                      `gorm:"not null;size:255" json:"name"`
	Description   *string                     `gorm:"type:text" json:"description"`
	Price         float64                     `gorm:"not null;check:price > 0" json:"price"`
	Features      datatypes.JSONSlice[string] `json:"features"`
	StripePriceID *string                     `gorm:"size:255" json:"stripe_price_id"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Features == nil {
		p.Features = datatypes.JSONSlice[string]{}
	}
	return nil
}

// HasStripePrice reports whether the product was already priced on Stripe.
func (p *Product) HasStripePrice() bool {
	return p.StripePriceID != nil && *p.StripePriceID != ""
}

// ProductInput is the admin-editable part of a product.
type ProductInput struct {
	Name        string
	Description *string
	Price       float64
	Features    []string
}
