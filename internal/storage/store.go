// Package storage provides durable persistence of an opaque snapshot
// document with corruption tolerance: every save keeps a bounded history
// of timestamped backups, and loading falls back through them when the
// current copy is missing or invalid.
package storage

import "errors"

// ErrNoValidBackup indicates a load exhausted the most recent backups
// without finding one that validates, or found no data at all.
var ErrNoValidBackup = errors.New("no valid backup")

// Validator checks that a raw snapshot parses into a well-formed model.
// Stores run it after writing (self-check) and before returning loaded
// data.
type Validator func(data []byte) error

// Store define los metodos de un backend de snapshots.
type Store interface {
	// Save durably writes a new snapshot. A failed self-check is
	// logged, not returned; the snapshot history is still advanced.
	Save(data []byte) error
	// Load returns the newest snapshot that validates, or
	// ErrNoValidBackup.
	Load() ([]byte, error)
}
