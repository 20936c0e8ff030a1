package services

import (
	"errors"
	"fmt"

	"eventplanner-backend/pkg/database"
)

// Domain errors returned by every service. Handlers switch on these with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("already exists")
	ErrAuthFailed = errors.New("authentication failed")
	ErrInvalidKey = errors.New("invalid registration key")
)

// storeError translates storage errors into domain errors and wraps the rest
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
