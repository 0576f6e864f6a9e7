package database

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Translate converts a gorm/pgx error into an *apperr.Error. entity names
// the row type in not-found and conflict messages.
func Translate(err error, entity string) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.KindNotFound, err, entity+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.KindConflict, err, entity+" already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return apperr.Wrap(apperr.KindBadRequest, err, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.KindUnavailable, err, "database request timed out")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return apperr.Wrap(apperr.KindConflict, err, entity+" already exists")
		case strings.HasPrefix(pgErr.Code, "23"), strings.HasPrefix(pgErr.Code, "22"):
			// integrity constraint or data exception
			return apperr.Wrap(apperr.KindBadRequest, err, pgErr.Message)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"), strings.HasPrefix(pgErr.Code, "53"):
			return apperr.Wrap(apperr.KindUnavailable, err, "database unavailable")
		case pgErr.Code == "42501":
			return apperr.Wrap(apperr.KindForbidden, err, "permission denied")
		}
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) {
		return apperr.Wrap(apperr.KindUnavailable, err, "database unavailable")
	}

	return apperr.Wrap(apperr.KindInternal, err, "")
}
