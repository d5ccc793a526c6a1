package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/migrations"
)

// DB is an open SQL connection together with the dialect specifics the
// repositories need.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	placeholder        sq.PlaceholderFormat
	dialect            string
	logger             *logger.Logger
}

// Migrate applies the embedded schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	version, err := migrations.Migrate(ctx, db.DB, db.dialect)
	if err != nil {
		return err
	}
	db.logger.Info().
		Str("func", "DB.Migrate").
		Str("dialect", db.dialect).
		Int64("version", version).
		Msg("schema up to date")
	return nil
}

func (db *DB) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.placeholder)
}
