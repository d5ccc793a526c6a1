// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/svthalia/concrexit-sub001/internal/adapter"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/models"
)

// Variant tags the three resource type implementations.
type Variant int

const (
	// VariantBasic pulls by fetching and diffing the full remote collection.
	VariantBasic Variant = iota
	// VariantSynchronizable pulls through the remote {id, version} endpoint.
	VariantSynchronizable
	// VariantComposite is a synchronizable document owning line items.
	VariantComposite
)

func (v Variant) String() string {
	switch v {
	case VariantBasic:
		return "basic"
	case VariantSynchronizable:
		return "synchronizable"
	case VariantComposite:
		return "composite"
	}
	return "unknown"
}

// ResourceType describes one remote entity kind and implements the push,
// pull and diff primitives for its local mirror records.
type ResourceType interface {
	Config() models.ResourceTypeConfig
	Variant() Variant

	// Serialize returns the request body for res.
	Serialize(ctx context.Context, res *models.Resource) (models.Payload, error)
	// CalcDataDiff returns the part of local that differs from remote.
	CalcDataDiff(remote, local models.Payload) models.Payload

	// PendingPush lists the records that must be pushed or destroyed.
	PendingPush(ctx context.Context) ([]*models.Resource, error)
	// PushToRemote creates or updates res remotely. A nil data pushes the
	// full serialization, and is a no-op when res is already synced.
	PushToRemote(ctx context.Context, res *models.Resource, data models.Payload) error
	// PushDiffToRemote pushes only what changed since the stored snapshot
	// of res.
	PushDiffToRemote(ctx context.Context, res *models.Resource) error
	// DeleteOnRemote deletes res remotely. A missing remote resource counts
	// as deleted.
	DeleteOnRemote(ctx context.Context, res *models.Resource) error
	// Destroy deletes res remotely, then locally.
	Destroy(ctx context.Context, res *models.Resource) error

	// GetFromRemote refreshes res from its remote resource.
	GetFromRemote(ctx context.Context, res *models.Resource) error
	// GetOrCreateFromRemote upserts the local mirror of id. Without a
	// payload the resource is fetched; a missing or malformed remote
	// resource yields (nil, nil).
	GetOrCreateFromRemote(ctx context.Context, id models.RemoteID, payload models.Payload) (*models.Resource, error)
	CreateFromRemote(ctx context.Context, payload models.Payload) (*models.Resource, error)
	UpdateFromRemote(ctx context.Context, res *models.Resource, payload models.Payload) error

	// Pull mirrors the full remote collection locally.
	Pull(ctx context.Context) error
	// PurgeOrphans deletes local records that never got a remote id.
	PurgeOrphans(ctx context.Context) (int64, error)

	PublicURL(res *models.Resource) string
}

// codec holds the steps composite documents extend. Base methods call
// through it so that overriding them in an embedding type takes effect.
type codec interface {
	serialize(ctx context.Context, res *models.Resource) (models.Payload, error)
	calcDataDiff(remote, local models.Payload) models.Payload
	// dirty reports whether res has changes to push.
	dirty(ctx context.Context, res *models.Resource) (bool, error)
	// applyFields copies a remote payload onto res without saving it.
	applyFields(res *models.Resource, payload models.Payload) error
	// afterSave runs once res has been saved from payload. pushed reports
	// whether payload answers a push of res.
	afterSave(ctx context.Context, res *models.Resource, payload models.Payload, pushed bool) error
}

// resourceType is the basic [ResourceType]: full-collection pulls, optionally
// paginated.
type resourceType struct {
	cfg    models.ResourceTypeConfig
	client adapter.RemoteClient
	repo   store.ResourceRepository
	mapper Mapper
	codec  codec
}

// NewResourceType returns a basic [ResourceType] for cfg.
func NewResourceType(cfg models.ResourceTypeConfig, mapper Mapper, client adapter.RemoteClient, repo store.ResourceRepository) ResourceType {
	return newResourceType(cfg, mapper, client, repo)
}

func newResourceType(cfg models.ResourceTypeConfig, mapper Mapper, client adapter.RemoteClient, repo store.ResourceRepository) *resourceType {
	t := &resourceType{
		cfg:    cfg.WithDefaults(),
		client: client,
		repo:   repo,
		mapper: mapper,
	}
	t.codec = t
	return t
}

func (t *resourceType) Config() models.ResourceTypeConfig { return t.cfg }

func (t *resourceType) Variant() Variant { return VariantBasic }

func (t *resourceType) Serialize(ctx context.Context, res *models.Resource) (models.Payload, error) {
	return t.codec.serialize(ctx, res)
}

func (t *resourceType) serialize(_ context.Context, res *models.Resource) (models.Payload, error) {
	return t.mapper.Serialize(res)
}

func (t *resourceType) CalcDataDiff(remote, local models.Payload) models.Payload {
	return t.codec.calcDataDiff(remote, local)
}

func (t *resourceType) calcDataDiff(remote, local models.Payload) models.Payload {
	return CalcDataDiff(remote, local)
}

func (t *resourceType) dirty(_ context.Context, res *models.Resource) (bool, error) {
	return !res.Synced, nil
}

func (t *resourceType) applyFields(res *models.Resource, payload models.Payload) error {
	if id, ok := payload.RemoteID(); ok {
		res.SetRemoteID(id)
	}
	if version, ok := payload.Version(); ok {
		res.SetRemoteVersion(version)
	}
	if err := t.mapper.Apply(res, payload); err != nil {
		return err
	}
	res.Synced = true
	res.PendingDelete = false
	return nil
}

func (t *resourceType) afterSave(context.Context, *models.Resource, models.Payload, bool) error {
	return nil
}

func (t *resourceType) PendingPush(ctx context.Context) ([]*models.Resource, error) {
	return t.repo.ListPending(ctx, t.cfg.Kind)
}

func (t *resourceType) PushToRemote(ctx context.Context, res *models.Resource, data models.Payload) error {
	log := logger.FromContext(ctx)

	if !t.cfg.CanWrite {
		return nil
	}

	full := data == nil
	if full {
		dirty, err := t.codec.dirty(ctx, res)
		if err != nil {
			return err
		}
		if !dirty {
			return nil
		}
		if data, err = t.codec.serialize(ctx, res); err != nil {
			return err
		}
	}

	var (
		raw json.RawMessage
		err error
	)
	if !res.HasRemoteID() {
		raw, err = t.client.Post(ctx, t.cfg.APIPath, t.envelope(data))
	} else {
		// explicit data is already a diff
		if t.cfg.FetchBeforePush && full {
			current, fetchErr := t.fetch(ctx, res.RemoteIDValue())
			if fetchErr != nil {
				return fmt.Errorf("fetch %s %s before push: %w", t.cfg.Kind, res.RemoteIDValue(), fetchErr)
			}
			data = t.codec.calcDataDiff(current, data)
			if len(data) == 0 {
				return t.apply(ctx, res, current, true)
			}
		}
		raw, err = t.client.Patch(ctx, t.resourcePath(res.RemoteIDValue()), t.envelope(data))
	}
	if err != nil {
		return fmt.Errorf("push %s %s: %w", t.cfg.Kind, res.ID, err)
	}

	payload, err := models.DecodePayload(raw)
	if err != nil {
		return fmt.Errorf("push %s %s: %w", t.cfg.Kind, res.ID, err)
	}
	if len(payload) == 0 {
		if !res.HasRemoteID() {
			return fmt.Errorf("push %s %s: %w", t.cfg.Kind, res.ID, ErrEmptyPayload)
		}
		if payload, err = t.fetch(ctx, res.RemoteIDValue()); err != nil {
			return fmt.Errorf("refresh %s %s after push: %w", t.cfg.Kind, res.RemoteIDValue(), err)
		}
	}
	if _, ok := payload.RemoteID(); !ok && !res.HasRemoteID() {
		return fmt.Errorf("push %s %s: %w", t.cfg.Kind, res.ID, ErrNoRemoteID)
	}

	if err = t.apply(ctx, res, payload, true); err != nil {
		return err
	}

	log.Debug().
		Str("func", "resourceType.PushToRemote").
		Str("kind", t.cfg.Kind).
		Str("remote_id", res.RemoteIDValue().String()).
		Msg("resource pushed")
	return nil
}

func (t *resourceType) PushDiffToRemote(ctx context.Context, res *models.Resource) error {
	old, err := t.repo.Get(ctx, res.ID)
	if errors.Is(err, store.ErrResourceNotFound) {
		return t.PushToRemote(ctx, res, nil)
	}
	if err != nil {
		return err
	}
	// an unsynced snapshot still carries changes the remote has not seen
	if !old.Synced || !res.HasRemoteID() {
		res.MarkChanged()
		return t.PushToRemote(ctx, res, nil)
	}

	oldData, err := t.codec.serialize(ctx, old)
	if err != nil {
		return err
	}
	newData, err := t.codec.serialize(ctx, res)
	if err != nil {
		return err
	}

	diff := t.codec.calcDataDiff(oldData, newData)
	if len(diff) == 0 {
		return nil
	}
	return t.PushToRemote(ctx, res, diff)
}

func (t *resourceType) DeleteOnRemote(ctx context.Context, res *models.Resource) error {
	if !t.cfg.CanDelete || !res.HasRemoteID() {
		return nil
	}

	err := t.client.Delete(ctx, t.resourcePath(res.RemoteIDValue()))
	if errors.Is(err, adapter.ErrNotFound) {
		logger.FromContext(ctx).Debug().
			Str("func", "resourceType.DeleteOnRemote").
			Str("kind", t.cfg.Kind).
			Str("remote_id", res.RemoteIDValue().String()).
			Msg("remote resource already gone")
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", t.cfg.Kind, res.RemoteIDValue(), err)
	}
	return nil
}

func (t *resourceType) Destroy(ctx context.Context, res *models.Resource) error {
	if err := t.DeleteOnRemote(ctx, res); err != nil {
		return err
	}

	err := t.repo.Delete(ctx, res.ID)
	if err != nil && !errors.Is(err, store.ErrResourceNotFound) {
		return err
	}
	return nil
}

func (t *resourceType) GetFromRemote(ctx context.Context, res *models.Resource) error {
	if !res.HasRemoteID() {
		return fmt.Errorf("refresh %s %s: %w", t.cfg.Kind, res.ID, ErrNoRemoteID)
	}

	payload, err := t.fetch(ctx, res.RemoteIDValue())
	if err != nil {
		return fmt.Errorf("refresh %s %s: %w", t.cfg.Kind, res.RemoteIDValue(), err)
	}
	return t.UpdateFromRemote(ctx, res, payload)
}

func (t *resourceType) GetOrCreateFromRemote(ctx context.Context, id models.RemoteID, payload models.Payload) (*models.Resource, error) {
	log := logger.FromContext(ctx)

	if len(payload) == 0 {
		fetched, err := t.fetch(ctx, id)
		if errors.Is(err, adapter.ErrNotFound) || errors.Is(err, adapter.ErrMalformedResponse) || errors.Is(err, ErrEmptyPayload) {
			log.Warn().Err(err).
				Str("func", "resourceType.GetOrCreateFromRemote").
				Str("kind", t.cfg.Kind).
				Str("remote_id", id.String()).
				Msg("remote resource unavailable")
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		payload = fetched
	}

	res, err := t.repo.GetByRemoteID(ctx, t.cfg.Kind, id)
	if errors.Is(err, store.ErrResourceNotFound) {
		res = models.NewResource(t.cfg.Kind, t.cfg.BaseKind)
		res.SetRemoteID(id)
	} else if err != nil {
		return nil, err
	}

	if err = t.UpdateFromRemote(ctx, res, payload); err != nil {
		return nil, err
	}
	return res, nil
}

func (t *resourceType) CreateFromRemote(ctx context.Context, payload models.Payload) (*models.Resource, error) {
	id, ok := payload.RemoteID()
	if !ok {
		return nil, fmt.Errorf("create %s: %w", t.cfg.Kind, ErrNoRemoteID)
	}

	res := models.NewResource(t.cfg.Kind, t.cfg.BaseKind)
	res.SetRemoteID(id)
	if err := t.UpdateFromRemote(ctx, res, payload); err != nil {
		return nil, err
	}
	return res, nil
}

func (t *resourceType) UpdateFromRemote(ctx context.Context, res *models.Resource, payload models.Payload) error {
	return t.apply(ctx, res, payload, false)
}

func (t *resourceType) apply(ctx context.Context, res *models.Resource, payload models.Payload, pushed bool) error {
	if err := t.codec.applyFields(res, payload); err != nil {
		return err
	}
	if err := t.performSave(ctx, res); err != nil {
		return err
	}
	return t.codec.afterSave(ctx, res, payload, pushed)
}

// performSave saves res, reclaiming its remote id when another local row
// holds it. The conflicting row is looked up by kind first, then by base
// kind, and the save is retried exactly once.
func (t *resourceType) performSave(ctx context.Context, res *models.Resource) error {
	err := t.repo.Save(ctx, res)
	if !errors.Is(err, store.ErrRemoteIDConflict) {
		return err
	}

	log := logger.FromContext(ctx)
	remoteID := res.RemoteIDValue()

	n, err := t.repo.DeleteByKindAndRemoteID(ctx, res.Kind, remoteID, res.ID)
	if err != nil {
		return fmt.Errorf("reclaim %s %s: %w", res.Kind, remoteID, err)
	}
	if n == 0 {
		if n, err = t.repo.DeleteByBaseKindAndRemoteID(ctx, res.BaseKind, remoteID, res.ID); err != nil {
			return fmt.Errorf("reclaim %s %s: %w", res.BaseKind, remoteID, err)
		}
	}

	log.Warn().
		Str("func", "resourceType.performSave").
		Str("kind", res.Kind).
		Str("remote_id", remoteID.String()).
		Int64("deleted", n).
		Msg("reclaimed remote id from another local record")

	return t.repo.Save(ctx, res)
}

func (t *resourceType) Pull(ctx context.Context) error {
	if !t.cfg.CanDoFullSync {
		return nil
	}

	payloads, err := t.fetchCollection(ctx)
	if err != nil {
		return fmt.Errorf("fetch %s collection: %w", t.cfg.Kind, err)
	}

	localIDs, err := t.repo.RemoteIDs(ctx, t.cfg.Kind)
	if err != nil {
		return err
	}

	diff := DiffResources(localIDs, payloads)
	if err = t.applyDiff(ctx, diff); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().
		Str("func", "resourceType.Pull").
		Str("kind", t.cfg.Kind).
		Int("added", len(diff.Added)).
		Int("changed", len(diff.Changed)).
		Int("removed", len(diff.Removed)).
		Msg("collection pulled")
	return nil
}

func (t *resourceType) applyDiff(ctx context.Context, diff models.ResourceDiff) error {
	for _, payload := range diff.Added {
		if _, err := t.CreateFromRemote(ctx, payload); err != nil {
			return err
		}
	}
	for _, payload := range diff.Changed {
		id, _ := payload.RemoteID()
		if _, err := t.GetOrCreateFromRemote(ctx, id, payload); err != nil {
			return err
		}
	}
	if _, err := t.repo.DeleteByRemoteIDs(ctx, t.cfg.Kind, diff.Removed); err != nil {
		return err
	}
	return nil
}

// fetchCollection requests the collection page by page until a page holds
// fewer than PageSize items, or in one request when not paginated.
func (t *resourceType) fetchCollection(ctx context.Context) ([]models.Payload, error) {
	params := t.listParams()
	if !t.cfg.Paginated {
		raw, err := t.client.Get(ctx, t.cfg.APIPath, params)
		if err != nil {
			return nil, err
		}
		return models.DecodePayloadList(raw)
	}

	var all []models.Payload
	params.Set("per_page", strconv.Itoa(t.cfg.PageSize))
	for page := 1; ; page++ {
		params.Set("page", strconv.Itoa(page))

		raw, err := t.client.Get(ctx, t.cfg.APIPath, params)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		items, err := models.DecodePayloadList(raw)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		all = append(all, items...)
		if len(items) < t.cfg.PageSize {
			return all, nil
		}
	}
}

func (t *resourceType) PurgeOrphans(ctx context.Context) (int64, error) {
	return t.repo.DeleteWithoutRemoteID(ctx, t.cfg.Kind)
}

func (t *resourceType) PublicURL(res *models.Resource) string {
	if !res.HasRemoteID() {
		return ""
	}
	return t.client.PublicURL(t.cfg.PublicPath, res.RemoteIDValue())
}

func (t *resourceType) fetch(ctx context.Context, id models.RemoteID) (models.Payload, error) {
	raw, err := t.client.Get(ctx, t.resourcePath(id), nil)
	if err != nil {
		return nil, err
	}

	payload, err := models.DecodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", adapter.ErrMalformedResponse, err)
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	return payload, nil
}

func (t *resourceType) resourcePath(id models.RemoteID) string {
	return t.cfg.APIPath + "/" + url.PathEscape(id.String())
}

func (t *resourceType) listParams() url.Values {
	params := url.Values{}
	for key, value := range t.cfg.ListParams {
		params.Set(key, value)
	}
	return params
}

func (t *resourceType) envelope(data models.Payload) any {
	if t.cfg.Envelope == "" {
		return data
	}
	return map[string]any{t.cfg.Envelope: data}
}
