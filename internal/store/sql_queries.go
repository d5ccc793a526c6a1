package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/svthalia/concrexit-sub001/models"
)

const resourcesTable = "resources"

var resourceColumns = []string{
	"id",
	"kind",
	"base_kind",
	"remote_id",
	"remote_version",
	"synced",
	"pending_delete",
	"parent_id",
	"position",
	"data",
	"created_at",
	"updated_at",
}

// upsertResourceSuffix updates every column except id and created_at when
// the local id already exists. Both PostgreSQL and SQLite accept it.
const upsertResourceSuffix = `ON CONFLICT (id) DO UPDATE SET
	kind = excluded.kind,
	base_kind = excluded.base_kind,
	remote_id = excluded.remote_id,
	remote_version = excluded.remote_version,
	synced = excluded.synced,
	pending_delete = excluded.pending_delete,
	parent_id = excluded.parent_id,
	position = excluded.position,
	data = excluded.data,
	updated_at = excluded.updated_at`

func buildSelectResourcesQuery(b sq.StatementBuilderType, where sq.Sqlizer, orderBy ...string) (string, []any, error) {
	query := b.Select(resourceColumns...).From(resourcesTable).Where(where)
	if len(orderBy) > 0 {
		query = query.OrderBy(orderBy...)
	}
	return query.ToSql()
}

func buildSelectRemoteVersionsQuery(b sq.StatementBuilderType, kind string) (string, []any, error) {
	return b.Select("remote_id", "remote_version").
		From(resourcesTable).
		Where(sq.Eq{"kind": kind}).
		Where(sq.NotEq{"remote_id": nil}).
		ToSql()
}

func buildUpsertResourceQuery(b sq.StatementBuilderType, r *models.Resource, data string, now time.Time) (string, []any, error) {
	var parentID any
	if r.ParentID != nil {
		parentID = r.ParentID.String()
	}
	var remoteID any
	if r.HasRemoteID() {
		remoteID = r.RemoteIDValue().String()
	}
	var remoteVersion any
	if r.RemoteVersion != nil {
		remoteVersion = *r.RemoteVersion
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	return b.Insert(resourcesTable).
		Columns(resourceColumns...).
		Values(
			r.ID.String(),
			r.Kind,
			r.BaseKind,
			remoteID,
			remoteVersion,
			r.Synced,
			r.PendingDelete,
			parentID,
			r.Position,
			data,
			createdAt,
			now,
		).
		Suffix(upsertResourceSuffix).
		ToSql()
}

func buildDeleteResourcesQuery(b sq.StatementBuilderType, where sq.Sqlizer) (string, []any, error) {
	return b.Delete(resourcesTable).Where(where).ToSql()
}

func whereID(id uuid.UUID) sq.Sqlizer {
	return sq.Eq{"id": id.String()}
}

func whereRemoteIDExcept(column, value string, remoteID models.RemoteID, except uuid.UUID) sq.Sqlizer {
	return sq.And{
		sq.Eq{column: value, "remote_id": remoteID.String()},
		sq.NotEq{"id": except.String()},
	}
}

func remoteIDStrings(ids []models.RemoteID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
