package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/microlend/internal/domain/port"
)

// scannable is satisfied by pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// notFound maps pgx.ErrNoRows to port.ErrNotFound and wraps anything else.
func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, port.ErrNotFound)
	}
	return fmt.Errorf("find %s: %w", what, err)
}
