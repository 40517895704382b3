package contract

import "errors"

var (
	// ErrDuplicateKey is returned when a unique constraint rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrForeignKey is returned when a referenced row does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)
