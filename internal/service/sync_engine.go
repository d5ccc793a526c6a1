// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/store"
	"github.com/svthalia/concrexit-sub001/internal/utils"
	"github.com/svthalia/concrexit-sub001/models"
)

// SyncEngine runs synchronization passes over the registered resource types.
//
// Only one pass runs at a time. A pass started while another is in flight
// returns [ErrSyncInProgress] immediately without doing any work; it is
// neither queued nor retried.
type SyncEngine struct {
	registry *Registry
	repo     store.ResourceRepository
	logger   *logger.Logger

	running atomic.Bool
}

// NewSyncEngine constructs a [SyncEngine] over registry and repo.
func NewSyncEngine(registry *Registry, repo store.ResourceRepository, logger *logger.Logger) *SyncEngine {
	return &SyncEngine{
		registry: registry,
		repo:     repo,
		logger:   logger,
	}
}

// Running reports whether a pass is in flight.
func (e *SyncEngine) Running() bool {
	return e.running.Load()
}

// Run synchronizes every registered type in registration order.
func (e *SyncEngine) Run(ctx context.Context) error {
	return e.RunFor(ctx, e.registry.All()...)
}

// RunFor pushes the pending records of every type in types, then pulls each
// type that supports full synchronization, in the order given.
//
// A failing record never stops the push phase. A failing pull aborts the
// pass and is returned.
func (e *SyncEngine) RunFor(ctx context.Context, types ...ResourceType) error {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Info().Str("func", "SyncEngine.RunFor").Msg("synchronization already running, skipping")
		return ErrSyncInProgress
	}
	defer e.running.Store(false)

	log := e.logger.WithStr("run_id", utils.NewSortableID())
	ctx = log.WithContext(ctx)
	started := time.Now()

	log.Info().Str("func", "SyncEngine.RunFor").Int("types", len(types)).Msg("synchronization started")

	for _, t := range types {
		if err := e.push(ctx, t); err != nil {
			log.Err(err).Str("func", "SyncEngine.RunFor").Str("kind", t.Config().Kind).Msg("push phase failed")
			return fmt.Errorf("push %s: %w", t.Config().Kind, err)
		}
	}

	for _, t := range types {
		if err := e.pull(ctx, t); err != nil {
			log.Err(err).Str("func", "SyncEngine.RunFor").Str("kind", t.Config().Kind).Msg("pull phase failed")
			return fmt.Errorf("pull %s: %w", t.Config().Kind, err)
		}
	}

	log.Info().
		Str("func", "SyncEngine.RunFor").
		Dur("duration", time.Since(started)).
		Msg("synchronization finished")
	return nil
}

// push only fails when the pending records cannot be listed.
func (e *SyncEngine) push(ctx context.Context, t ResourceType) error {
	pending, err := t.PendingPush(ctx)
	if err != nil {
		return err
	}

	for _, res := range pending {
		e.pushOne(ctx, t, res)
	}
	return nil
}

// pushOne pushes res, falls back to the remote state when that fails and
// drops the local record when both fail.
func (e *SyncEngine) pushOne(ctx context.Context, t ResourceType, res *models.Resource) {
	log := logger.FromContext(ctx)

	var err error
	if res.PendingDelete {
		err = t.Destroy(ctx, res)
	} else {
		err = t.PushToRemote(ctx, res, nil)
	}
	if err == nil {
		return
	}

	log.Warn().Err(err).
		Str("func", "SyncEngine.pushOne").
		Str("kind", res.Kind).
		Str("id", res.ID.String()).
		Msg("push failed, refreshing from remote")

	refreshErr := t.GetFromRemote(ctx, res)
	if refreshErr == nil {
		return
	}

	log.Error().Err(refreshErr).
		Str("func", "SyncEngine.pushOne").
		Str("kind", res.Kind).
		Str("id", res.ID.String()).
		Msg("refresh failed, deleting local record")

	if delErr := e.repo.Delete(ctx, res.ID); delErr != nil && !errors.Is(delErr, store.ErrResourceNotFound) {
		log.Err(delErr).Str("func", "SyncEngine.pushOne").Str("id", res.ID.String()).Msg("failed to delete local record")
	}
}

func (e *SyncEngine) pull(ctx context.Context, t ResourceType) error {
	cfg := t.Config()
	if !cfg.CanDoFullSync {
		return nil
	}

	purged, err := t.PurgeOrphans(ctx)
	if err != nil {
		return fmt.Errorf("purge orphans: %w", err)
	}
	if purged > 0 {
		logger.FromContext(ctx).Info().
			Str("func", "SyncEngine.pull").
			Str("kind", cfg.Kind).
			Int64("purged", purged).
			Msg("purged records without remote id")
	}

	return t.Pull(ctx)
}

// PushChange pushes a locally mutated record. Lines are saved and pushed
// through their document.
func (e *SyncEngine) PushChange(ctx context.Context, res *models.Resource) error {
	t, err := e.registry.ByKind(res.Kind)
	if err != nil {
		return err
	}

	if !res.IsLine() {
		return t.PushDiffToRemote(ctx, res)
	}

	res.MarkChanged()
	if err = e.repo.Save(ctx, res); err != nil {
		return err
	}
	parent, err := e.repo.Get(ctx, *res.ParentID)
	if err != nil {
		return fmt.Errorf("load document of line %s: %w", res.ID, err)
	}
	return t.PushToRemote(ctx, parent, nil)
}

// DeleteResource deletes res remotely and locally.
func (e *SyncEngine) DeleteResource(ctx context.Context, res *models.Resource) error {
	t, err := e.registry.ByKind(res.Kind)
	if err != nil {
		return err
	}

	if res.IsLine() {
		doc, ok := t.(DocumentType)
		if !ok {
			return fmt.Errorf("delete %s %s: %w", res.Kind, res.ID, ErrNotALine)
		}
		return doc.DestroyLine(ctx, res)
	}
	return t.Destroy(ctx, res)
}
