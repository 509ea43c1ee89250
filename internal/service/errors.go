package service

import (
	"errors"

	"gorm.io/gorm"
)

// Error taxonomy surfaced to the transport layer. Persistence failures are
// wrapped and returned as-is; push delivery failures never reach here.
var (
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// notFoundOr maps gorm's missing-record error onto the taxonomy and passes
// every other persistence failure through untouched.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
