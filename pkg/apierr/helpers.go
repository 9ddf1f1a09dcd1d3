package apierr

import (
	"database/sql"
	"errors"
)

// IsNotFound returns true if the error is or wraps sql.ErrNoRows.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
