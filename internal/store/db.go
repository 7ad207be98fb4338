package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// Drivers accepted by NewDB.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// NewDB wraps an opened database handle with the bun dialect matching the
// driver. Callers own the underlying handle's lifecycle.
func NewDB(sqldb *sql.DB, driver string) (*bun.DB, error) {
	switch driver {
	case DriverSQLite:
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

// EnsureSchema creates the archive table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*ConversionRecord)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}
