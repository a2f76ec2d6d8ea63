// Package repositories contains the MongoDB persistence layer. Every
// repository receives its *mongo.Database handle at construction time;
// there are no package-level connections.
package repositories

import "errors"

var (
	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("duplicate key")

	// ErrVersionConflict is returned when a compare-and-swap write loses
	// the race against a concurrent writer.
	ErrVersionConflict = errors.New("version conflict")
)
