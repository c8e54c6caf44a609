// package repositories provides persistence for download outcomes.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spx/internal/shared"
)

// DefaultHistoryLimit is the number of rows listed when no limit is given.
const DefaultHistoryLimit = 20

// ErrNoDatabase is returned by repositories constructed without a connection.
var ErrNoDatabase = errors.New("no database connection")

func checkDB(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, ErrNoDatabase)
	}
	return nil
}
