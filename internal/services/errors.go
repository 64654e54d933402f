package services

import (
	"errors"

	"github.com/Euaell/Car-Dealership/internal/apperrors"

	"gorm.io/gorm"
)

// notFoundOr translates a gorm lookup failure into the typed taxonomy:
// record-not-found becomes NotFound, anything else is Internal. Services
// never let raw gorm errors escape to handlers.
func notFoundOr(err error, entity string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return apperrors.Internal(err)
}

// conflictOr translates a unique-constraint violation into Conflict.
// Requires TranslateError on the gorm config.
func conflictOr(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Conflict(message)
	}
	return apperrors.Internal(err)
}
