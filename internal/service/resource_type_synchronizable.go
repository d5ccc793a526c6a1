package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/svthalia/concrexit-sub001/internal/adapter"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/models"
)

const synchronizationPath = "synchronization"

// synchronizableResourceType pulls incrementally: it diffs the remote
// {id, version} map against the local versions and fetches only added and
// changed resources in batches.
type synchronizableResourceType struct {
	*resourceType
}

// NewSynchronizableResourceType returns a versioned [ResourceType] for cfg.
func NewSynchronizableResourceType(cfg models.ResourceTypeConfig, mapper Mapper, client adapter.RemoteClient, repo store.ResourceRepository) ResourceType {
	return newSynchronizableResourceType(cfg, mapper, client, repo)
}

func newSynchronizableResourceType(cfg models.ResourceTypeConfig, mapper Mapper, client adapter.RemoteClient, repo store.ResourceRepository) *synchronizableResourceType {
	return &synchronizableResourceType{resourceType: newResourceType(cfg, mapper, client, repo)}
}

func (t *synchronizableResourceType) Variant() Variant { return VariantSynchronizable }

// LocalVersions returns {remote id: version} of the local mirror. Unknown
// versions read as 0 so that any real remote version is newer.
func (t *synchronizableResourceType) LocalVersions(ctx context.Context) (map[models.RemoteID]int64, error) {
	versions, err := t.repo.RemoteVersions(ctx, t.cfg.Kind)
	if err != nil {
		return nil, err
	}

	out := make(map[models.RemoteID]int64, len(versions))
	for id, version := range versions {
		if version == nil {
			out[id] = 0
			continue
		}
		out[id] = *version
	}
	return out, nil
}

// RemoteVersions fetches the {id, version} map of the remote collection.
func (t *synchronizableResourceType) RemoteVersions(ctx context.Context) (map[models.RemoteID]int64, error) {
	raw, err := t.client.Get(ctx, t.synchronizationPath(), t.listParams())
	if err != nil {
		return nil, err
	}

	var list []models.ResourceVersion
	if len(raw) > 0 {
		if err = json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: %w", adapter.ErrMalformedResponse, err)
		}
	}

	out := make(map[models.RemoteID]int64, len(list))
	for _, v := range list {
		out[v.ID] = v.Version
	}
	return out, nil
}

func (t *synchronizableResourceType) Pull(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if !t.cfg.CanDoFullSync {
		return nil
	}

	remote, err := t.RemoteVersions(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s versions: %w", t.cfg.Kind, err)
	}
	local, err := t.LocalVersions(ctx)
	if err != nil {
		return err
	}

	diff := DiffResourceVersions(local, remote)
	ids := make([]models.RemoteID, 0, len(diff.Added)+len(diff.Changed))
	ids = append(ids, diff.Added...)
	ids = append(ids, diff.Changed...)

	fetched, err := t.fetchBatches(ctx, ids)
	if err != nil {
		return err
	}

	if _, err = t.repo.DeleteByRemoteIDs(ctx, t.cfg.Kind, diff.Removed); err != nil {
		return err
	}

	log.Info().
		Str("func", "synchronizableResourceType.Pull").
		Str("kind", t.cfg.Kind).
		Int("added", len(diff.Added)).
		Int("changed", len(diff.Changed)).
		Int("removed", len(diff.Removed)).
		Int("fetched", fetched).
		Msg("versions synchronized")
	return nil
}

// fetchBatches requests ids in chunks of MaxBatchSize and applies every
// returned payload. Throttling ends the loop early without an error.
func (t *synchronizableResourceType) fetchBatches(ctx context.Context, ids []models.RemoteID) (int, error) {
	log := logger.FromContext(ctx)

	fetched := 0
	for i, chunk := range chunkIDs(ids, MaxBatchSize) {
		raw, err := t.client.Post(ctx, t.synchronizationPath(), map[string]any{"ids": chunk})
		if errors.Is(err, adapter.ErrThrottled) {
			event := log.Warn().
				Str("func", "synchronizableResourceType.fetchBatches").
				Str("kind", t.cfg.Kind).
				Int("batch", i+1).
				Int("fetched", fetched)
			var remoteErr *adapter.Error
			if errors.As(err, &remoteErr) && !remoteErr.RetryAfter.IsZero() {
				event = event.Time("retry_after", remoteErr.RetryAfter)
			}
			event.Msg("throttled, continuing on the next run")
			return fetched, nil
		}
		if err != nil {
			return fetched, fmt.Errorf("fetch %s batch %d: %w", t.cfg.Kind, i+1, err)
		}

		payloads, err := models.DecodePayloadList(raw)
		if err != nil {
			return fetched, fmt.Errorf("fetch %s batch %d: %w", t.cfg.Kind, i+1, err)
		}
		for _, payload := range payloads {
			id, ok := payload.RemoteID()
			if !ok {
				continue
			}
			if _, err = t.GetOrCreateFromRemote(ctx, id, payload); err != nil {
				return fetched, err
			}
			fetched++
		}
	}
	return fetched, nil
}

func (t *synchronizableResourceType) synchronizationPath() string {
	return t.cfg.APIPath + "/" + synchronizationPath
}
