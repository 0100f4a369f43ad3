package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	errs "github.com/slikapay/payment-engine/internal/domain/error"
)

// mapDBError maps driver and GORM errors to domain errors so the layers
// above never see database internals
func mapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrTransactionNotFound
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint"):
		// An order-id collision; callers treat it as the rare failure it is
		return errs.ErrInvalidRequest

	case strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no connection") ||
		strings.Contains(msg, "connection reset"):
		return errs.ErrDatabaseConnection

	case strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "deadline exceeded"):
		return errs.ErrDatabaseConnection

	default:
		return errs.ErrInternalServer
	}
}
