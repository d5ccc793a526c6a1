package store

import (
	"context"
	"fmt"

	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/logger"
)

// Storages bundles the repositories the services depend on.
type Storages struct {
	ResourceRepository ResourceRepository

	db *DB
}

// NewStorages opens the backend selected by cfg.Driver, applies the schema
// migrations and constructs the repositories.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case config.DriverMemory:
		log.Info().Str("func", "NewStorages").Msg("using in-memory storage")
		return &Storages{ResourceRepository: NewMemoryRepository()}, nil
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", cfg.Driver, err)
	}

	if err = db.Migrate(ctx); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		_ = db.Close()
		return nil, err
	}

	return &Storages{
		ResourceRepository: NewResourceRepository(db, log),
		db:                 db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
