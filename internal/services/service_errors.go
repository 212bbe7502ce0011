// filepath: internal/services/service_errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"intakehub/internal/models"
)

// Standard errors returned by the service layer.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyLoggedToday = errors.New("visit already logged today")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError carries every field message of a refused submission.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError carries the existing records that share the submitted
// household's phone, so the caller can offer a repeat visit instead.
type DuplicateError struct {
	Records []models.IntakeRecord
}

func (e *DuplicateError) Error() string {
	keys := make([]string, len(e.Records))
	for i, r := range e.Records {
		keys[i] = fmt.Sprintf("%d", r.Key)
	}
	return fmt.Sprintf("household already registered (records %s)", strings.Join(keys, ", "))
}

func (e *DuplicateError) Is(target error) bool { return target == ErrConflict }
