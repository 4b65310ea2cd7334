package domain

import "errors"

var (
	// ErrNotFound indicates a lookup by identifier, date or natural key
	// found nothing.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate indicates a creation would violate a uniqueness rule
	// (one event per date, one reservation per event/participant pair).
	ErrDuplicate = errors.New("already exists")
)
