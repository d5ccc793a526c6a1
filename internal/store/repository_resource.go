package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/models"
)

// resourceRepository is the SQL implementation of [ResourceRepository]. It
// works on PostgreSQL and SQLite; the dialect differences live in [DB].
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that database failures are traced with the kind
// and ids involved.
type resourceRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewResourceRepository constructs a [ResourceRepository] backed by db.
func NewResourceRepository(db *DB, logger *logger.Logger) ResourceRepository {
	return &resourceRepository{
		DB:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Get implements [ResourceRepository].
func (r *resourceRepository) Get(ctx context.Context, id uuid.UUID) (*models.Resource, error) {
	return r.getOne(ctx, "resourceRepository.Get", whereID(id))
}

// GetByRemoteID implements [ResourceRepository].
func (r *resourceRepository) GetByRemoteID(ctx context.Context, kind string, remoteID models.RemoteID) (*models.Resource, error) {
	return r.getOne(ctx, "resourceRepository.GetByRemoteID", sq.Eq{"kind": kind, "remote_id": remoteID.String()})
}

func (r *resourceRepository) getOne(ctx context.Context, fn string, where sq.Sqlizer) (*models.Resource, error) {
	list, err := r.list(ctx, fn, where)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrResourceNotFound
	}
	return list[0], nil
}

// ListPending implements [ResourceRepository].
func (r *resourceRepository) ListPending(ctx context.Context, kind string) ([]*models.Resource, error) {
	where := sq.And{
		sq.Eq{"kind": kind},
		sq.Or{sq.Eq{"synced": false}, sq.Eq{"pending_delete": true}},
	}
	return r.list(ctx, "resourceRepository.ListPending", where, "created_at", "id")
}

// ListLines implements [ResourceRepository].
func (r *resourceRepository) ListLines(ctx context.Context, parentID uuid.UUID) ([]*models.Resource, error) {
	return r.list(ctx, "resourceRepository.ListLines", sq.Eq{"parent_id": parentID.String()}, "position", "created_at")
}

func (r *resourceRepository) list(ctx context.Context, fn string, where sq.Sqlizer, orderBy ...string) ([]*models.Resource, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectResourcesQuery(r.builder(), where, orderBy...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]*models.Resource, 0, 16)
	for rows.Next() {
		res, scanErr := scanResource(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", fn).Msg("failed to scan resource row")
			return nil, scanErr
		}
		results = append(results, res)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", fn).Msg("error iterating resource rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

func scanResource(rows *sql.Rows) (*models.Resource, error) {
	var (
		res           models.Resource
		id            string
		parentID      sql.NullString
		remoteID      sql.NullString
		remoteVersion sql.NullInt64
		data          sql.NullString
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := rows.Scan(
		&id,
		&res.Kind,
		&res.BaseKind,
		&remoteID,
		&remoteVersion,
		&res.Synced,
		&res.PendingDelete,
		&parentID,
		&res.Position,
		&data,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	if res.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrScanningRows, err)
	}
	if parentID.Valid {
		parent, parseErr := uuid.Parse(parentID.String)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: parent_id: %w", ErrScanningRows, parseErr)
		}
		res.ParentID = &parent
	}
	if remoteID.Valid {
		res.SetRemoteID(models.RemoteID(remoteID.String))
	}
	if remoteVersion.Valid {
		res.SetRemoteVersion(remoteVersion.Int64)
	}

	res.Data = models.Payload{}
	if data.Valid && data.String != "" {
		if err = json.Unmarshal([]byte(data.String), &res.Data); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncodingData, err)
		}
	}
	res.CreatedAt = createdAt
	res.UpdatedAt = updatedAt

	return &res, nil
}

// RemoteIDs implements [ResourceRepository].
func (r *resourceRepository) RemoteIDs(ctx context.Context, kind string) ([]models.RemoteID, error) {
	versions, err := r.RemoteVersions(ctx, kind)
	if err != nil {
		return nil, err
	}

	ids := make([]models.RemoteID, 0, len(versions))
	for id := range versions {
		ids = append(ids, id)
	}
	return ids, nil
}

// RemoteVersions implements [ResourceRepository].
func (r *resourceRepository) RemoteVersions(ctx context.Context, kind string) (map[models.RemoteID]*int64, error) {
	log := logger.FromContext(ctx).WithStr("kind", kind)

	query, args, err := buildSelectRemoteVersionsQuery(r.builder(), kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "resourceRepository.RemoteVersions").Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	versions := make(map[models.RemoteID]*int64)
	for rows.Next() {
		var (
			id      string
			version sql.NullInt64
		)
		if err = rows.Scan(&id, &version); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if version.Valid {
			v := version.Int64
			versions[models.RemoteID(id)] = &v
			continue
		}
		versions[models.RemoteID(id)] = nil
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return versions, nil
}

// Save implements [ResourceRepository]. CreatedAt and UpdatedAt are set on
// the passed record.
func (r *resourceRepository) Save(ctx context.Context, res *models.Resource) error {
	log := logger.FromContext(ctx)

	data, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingData, err)
	}
	if res.Data == nil {
		data = []byte("{}")
	}

	now := r.now()
	query, args, err := buildUpsertResourceQuery(r.builder(), res, string(data), now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		class := NonRetryable
		if r.errorClassificator != nil {
			class = r.errorClassificator.Classify(err)
		}
		if class == UniqueViolation {
			log.Warn().
				Str("func", "resourceRepository.Save").
				Str("kind", res.Kind).
				Str("remote_id", res.RemoteIDValue().String()).
				Msg("remote id already claimed")
			return fmt.Errorf("%w: %s %s", ErrRemoteIDConflict, res.BaseKind, res.RemoteIDValue())
		}
		log.Err(err).
			Str("func", "resourceRepository.Save").
			Str("id", res.ID.String()).
			Stringer("class", class).
			Msg("failed to save resource")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now
	return nil
}

// Delete implements [ResourceRepository]. Lines are removed by the
// ON DELETE CASCADE of parent_id.
func (r *resourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.delete(ctx, "resourceRepository.Delete", whereID(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// DeleteByRemoteIDs implements [ResourceRepository].
func (r *resourceRepository) DeleteByRemoteIDs(ctx context.Context, kind string, ids []models.RemoteID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.delete(ctx, "resourceRepository.DeleteByRemoteIDs", sq.Eq{"kind": kind, "remote_id": remoteIDStrings(ids)})
}

// DeleteByKindAndRemoteID implements [ResourceRepository].
func (r *resourceRepository) DeleteByKindAndRemoteID(ctx context.Context, kind string, remoteID models.RemoteID, except uuid.UUID) (int64, error) {
	return r.delete(ctx, "resourceRepository.DeleteByKindAndRemoteID", whereRemoteIDExcept("kind", kind, remoteID, except))
}

// DeleteByBaseKindAndRemoteID implements [ResourceRepository].
func (r *resourceRepository) DeleteByBaseKindAndRemoteID(ctx context.Context, baseKind string, remoteID models.RemoteID, except uuid.UUID) (int64, error) {
	return r.delete(ctx, "resourceRepository.DeleteByBaseKindAndRemoteID", whereRemoteIDExcept("base_kind", baseKind, remoteID, except))
}

// DeleteWithoutRemoteID implements [ResourceRepository].
func (r *resourceRepository) DeleteWithoutRemoteID(ctx context.Context, kind string) (int64, error) {
	return r.delete(ctx, "resourceRepository.DeleteWithoutRemoteID", sq.Eq{"kind": kind, "remote_id": nil})
}

func (r *resourceRepository) delete(ctx context.Context, fn string, where sq.Sqlizer) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteResourcesQuery(r.builder(), where)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("failed to delete resources")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if n > 0 {
		log.Debug().Str("func", fn).Int64("deleted", n).Msg("resources deleted")
	}
	return n, nil
}
