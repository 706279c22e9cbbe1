package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// Migrate applies the pending up migrations found at source and returns the
// resulting schema version. source is the value of DB_MIGRATIONS_PATH: either
// a migrate source URL or a plain directory, which is read as file://.
// Callers skip Migrate entirely when DB_MIGRATIONS_PATH is empty.
func Migrate(dsn, source string) (uint, error) {
	m, err := migrate.New(migrationSource(source), dsn)
	if err != nil {
		return 0, fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("postgres: run migrations up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("postgres: read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("postgres: schema version %d is dirty", version)
	}
	return version, nil
}

func migrationSource(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	return "file://" + source
}
