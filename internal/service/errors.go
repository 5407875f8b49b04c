package service

import (
	"errors"
	"fmt"

	apperrors "github.com/199-biotechnologies/continuum-clinic-sub000/internal/pkg/errors"
)

// Ошибки сервисов, которые обработчики сопоставляют с HTTP-статусами
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrInvalidDateRange   = errors.New("invalid date range")
)

// validationError оборачивает причину в apperrors.ErrValidation
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
