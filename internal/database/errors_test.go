package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    apperr.Kind
		message string
	}{
		{"record not found", gorm.ErrRecordNotFound, apperr.KindNotFound, "product not found"},
		{"wrapped not found", fmt.Errorf("first: %w", gorm.ErrRecordNotFound), apperr.KindNotFound, "product not found"},
		{"duplicate key", gorm.ErrDuplicatedKey, apperr.KindConflict, "product already exists"},
		{"unique violation", &pgconn.PgError{Code: "23505", Message: "duplicate"}, apperr.KindConflict, "product already exists"},
		{"foreign key violation", &pgconn.PgError{Code: "23503", Message: "violates foreign key"}, apperr.KindBadRequest, "violates foreign key"},
		{"invalid text", &pgconn.PgError{Code: "22P02", Message: "invalid input syntax"}, apperr.KindBadRequest, "invalid input syntax"},
		{"admin shutdown", &pgconn.PgError{Code: "57P01", Message: "terminating"}, apperr.KindUnavailable, "database unavailable"},
		{"permission denied", &pgconn.PgError{Code: "42501", Message: "denied"}, apperr.KindForbidden, "permission denied"},
		{"deadline", context.DeadlineExceeded, apperr.KindUnavailable, "database request timed out"},
		{"unknown", errors.New("boom"), apperr.KindInternal, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err, "product")
			assert.Equal(t, tt.kind, apperr.KindOf(got))
			assert.Equal(t, tt.message, got.Error())
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestTranslatePassesThrough(t *testing.T) {
	assert.NoError(t, Translate(nil, "product"))

	original := apperr.New(apperr.KindForbidden, "not yours")
	assert.Same(t, original, Translate(original, "subscription"))
}
