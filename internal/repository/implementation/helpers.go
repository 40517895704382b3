package implementation

import (
	"errors"

	"prompt-library-be/internal/repository/contract"

	"gorm.io/gorm"
)

// translateError maps driver errors (already normalised by gorm's TranslateError)
// onto the repository contract.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return contract.ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return contract.ErrForeignKey
	default:
		return err
	}
}
