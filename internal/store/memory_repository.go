package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/svthalia/concrexit-sub001/models"
)

// memoryRepository is a process-local [ResourceRepository]. It enforces the
// same (base kind, remote id) uniqueness and line cascade as the SQL schema
// and hands out copies, so callers never share state with the store.
type memoryRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Resource
	now   func() time.Time
}

// NewMemoryRepository returns an empty in-memory [ResourceRepository].
func NewMemoryRepository() ResourceRepository {
	return &memoryRepository{
		items: make(map[uuid.UUID]*models.Resource),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *memoryRepository) Get(_ context.Context, id uuid.UUID) (*models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res, ok := m.items[id]
	if !ok {
		return nil, ErrResourceNotFound
	}
	return res.Clone(), nil
}

func (m *memoryRepository) GetByRemoteID(_ context.Context, kind string, remoteID models.RemoteID) (*models.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, res := range m.items {
		if res.Kind == kind && res.RemoteIDValue() == remoteID {
			return res.Clone(), nil
		}
	}
	return nil, ErrResourceNotFound
}

func (m *memoryRepository) ListPending(_ context.Context, kind string) ([]*models.Resource, error) {
	return m.filter(func(res *models.Resource) bool {
		return res.Kind == kind && (!res.Synced || res.PendingDelete)
	}, func(a, b *models.Resource) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	}), nil
}

func (m *memoryRepository) ListLines(_ context.Context, parentID uuid.UUID) ([]*models.Resource, error) {
	return m.filter(func(res *models.Resource) bool {
		return res.ParentID != nil && *res.ParentID == parentID
	}, func(a, b *models.Resource) bool {
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}), nil
}

func (m *memoryRepository) filter(match func(*models.Resource) bool, less func(a, b *models.Resource) bool) []*models.Resource {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Resource, 0)
	for _, res := range m.items {
		if match(res) {
			out = append(out, res.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (m *memoryRepository) RemoteIDs(ctx context.Context, kind string) ([]models.RemoteID, error) {
	versions, _ := m.RemoteVersions(ctx, kind)

	ids := make([]models.RemoteID, 0, len(versions))
	for id := range versions {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryRepository) RemoteVersions(_ context.Context, kind string) (map[models.RemoteID]*int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	versions := make(map[models.RemoteID]*int64)
	for _, res := range m.items {
		if res.Kind != kind || !res.HasRemoteID() {
			continue
		}
		if res.RemoteVersion == nil {
			versions[res.RemoteIDValue()] = nil
			continue
		}
		v := *res.RemoteVersion
		versions[res.RemoteIDValue()] = &v
	}
	return versions, nil
}

func (m *memoryRepository) Save(_ context.Context, res *models.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if res.HasRemoteID() {
		for id, other := range m.items {
			if id != res.ID && other.BaseKind == res.BaseKind && other.RemoteIDValue() == res.RemoteIDValue() {
				return ErrRemoteIDConflict
			}
		}
	}

	now := m.now()
	if existing, ok := m.items[res.ID]; ok {
		res.CreatedAt = existing.CreatedAt
	} else if res.CreatedAt.IsZero() {
		res.CreatedAt = now
	}
	res.UpdatedAt = now

	stored := res.Clone()
	if stored.Data == nil {
		stored.Data = models.Payload{}
	}
	m.items[res.ID] = stored
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return ErrResourceNotFound
	}
	m.deleteLocked(id)
	return nil
}

func (m *memoryRepository) DeleteByRemoteIDs(_ context.Context, kind string, ids []models.RemoteID) (int64, error) {
	set := make(map[models.RemoteID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return m.deleteWhere(func(res *models.Resource) bool {
		_, ok := set[res.RemoteIDValue()]
		return res.Kind == kind && res.HasRemoteID() && ok
	}), nil
}

func (m *memoryRepository) DeleteByKindAndRemoteID(_ context.Context, kind string, remoteID models.RemoteID, except uuid.UUID) (int64, error) {
	return m.deleteWhere(func(res *models.Resource) bool {
		return res.ID != except && res.Kind == kind && res.RemoteIDValue() == remoteID
	}), nil
}

func (m *memoryRepository) DeleteByBaseKindAndRemoteID(_ context.Context, baseKind string, remoteID models.RemoteID, except uuid.UUID) (int64, error) {
	return m.deleteWhere(func(res *models.Resource) bool {
		return res.ID != except && res.BaseKind == baseKind && res.RemoteIDValue() == remoteID
	}), nil
}

func (m *memoryRepository) DeleteWithoutRemoteID(_ context.Context, kind string) (int64, error) {
	return m.deleteWhere(func(res *models.Resource) bool {
		return res.Kind == kind && !res.HasRemoteID()
	}), nil
}

// deleteWhere counts only directly matched rows, like RowsAffected does for
// cascaded deletes.
func (m *memoryRepository) deleteWhere(match func(*models.Resource) bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []uuid.UUID
	for id, res := range m.items {
		if match(res) {
			matched = append(matched, id)
		}
	}
	for _, id := range matched {
		m.deleteLocked(id)
	}
	return int64(len(matched))
}

func (m *memoryRepository) deleteLocked(id uuid.UUID) {
	delete(m.items, id)
	for childID, res := range m.items {
		if res.ParentID != nil && *res.ParentID == id {
			m.deleteLocked(childID)
		}
	}
}
