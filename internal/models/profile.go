package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile is the application-level user record. Its ID is the account ID
// issued at sign-up.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// ProfileChanges holds the self-service fields; nil means unchanged.
type ProfileChanges struct {
	FullName *string
	Email    *string
}

func (c ProfileChanges) Empty() bool {
	return c.FullName == nil && c.Email == nil
}
