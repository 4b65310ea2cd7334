package validation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateDate valida que un string sea una fecha ISO-8601 (YYYY-MM-DD)
func ValidateDate(value, fieldName string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New(fieldName + " must be a date in YYYY-MM-DD format")
	}
	return nil
}

// ValidateTimestamp valida que un string sea un timestamp RFC 3339
func ValidateTimestamp(value, fieldName string) error {
	if _, err := time.Parse(time.RFC3339Nano, value); err != nil {
		return errors.New(fieldName + " must be an RFC 3339 timestamp")
	}
	return nil
}
