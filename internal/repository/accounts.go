package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid credentials")

// AccountRepository is the email/password account service. It runs on the
// restricted handle.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(gw *database.Gateway) *AccountRepository {
	return &AccountRepository{db: gw.Restricted}
}

func (r *AccountRepository) SignUp(ctx context.Context, email, password string) (*models.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
	}
	if err := r.db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, database.Translate(err, "account")
	}
	return &account, nil
}

func (r *AccountRepository) SignIn(ctx context.Context, email, password string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, database.Translate(err, "account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
