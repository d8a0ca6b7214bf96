package repo

import (
	"errors"

	"gorm.io/gorm"

	"doggy-rescue/internal/core/database"
	"doggy-rescue/internal/domain"
)

// translate maps driver and gorm errors onto the domain taxonomy. onDup and
// onFK replace unique and foreign-key violations when non-nil.
func translate(err, onDup, onFK error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isDomain(err):
		return err
	case onDup != nil && database.IsUniqueViolation(err):
		return onDup
	case onFK != nil && database.IsForeignKeyViolation(err):
		return onFK
	case database.IsUnavailable(err):
		return domain.Unavailable(err)
	}
	return err
}

func isDomain(err error) bool {
	for _, target := range []error{
		domain.ErrValidation, domain.ErrNotFound, domain.ErrAlreadyDecided, domain.ErrDogAdopted,
		domain.ErrReferentialConflict, domain.ErrDuplicateEmail, domain.ErrDuplicateRequest,
		domain.ErrServiceUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
