package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SQL flavour of the backing database.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// ParseDialect maps a driver or backend name to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return 0, fmt.Errorf("unknown sql dialect %q", s)
	}
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Initialize the office and geocode cache tables.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	realType, tsType, tsDefault := "REAL", "TIMESTAMP", "CURRENT_TIMESTAMP"
	if d == Postgres {
		realType, tsType, tsDefault = "DOUBLE PRECISION", "TIMESTAMPTZ", "now()"
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOfficesQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS offices (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		lon %[1]s NOT NULL,
		lat %[1]s NOT NULL,
		url TEXT NOT NULL,
		metadata TEXT NOT NULL DEFAULT '{}'
	);
	`, realType)

	createGeocodeCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        query TEXT PRIMARY KEY,
        lon %[1]s NOT NULL,
        lat %[1]s NOT NULL,
        updated_at %[2]s NOT NULL DEFAULT %[3]s
    );
	`, realType, tsType, tsDefault)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_offices_position
    ON offices(position);
	`

	statements := []string{
		createOfficesQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
