// Package migrations embeds the goose migrations of the local mirror schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Goose dialect names accepted by Migrate.
const (
	DialectPostgres = "pgx"
	DialectSQLite   = "sqlite3"
)

// goose keeps the dialect and base FS in package state.
var gooseMu sync.Mutex

// Migrate applies all pending migrations to db and returns the resulting
// schema version.
func Migrate(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	if db == nil {
		return 0, errors.New("migration error: db is nil")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("migration error setting dialect %q: %w", dialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return 0, fmt.Errorf("migration error: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("migration error reading version: %w", err)
	}
	return version, nil
}
