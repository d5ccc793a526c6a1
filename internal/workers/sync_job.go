// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/svthalia/concrexit-sub001/internal/config"
	"github.com/svthalia/concrexit-sub001/internal/logger"
	"github.com/svthalia/concrexit-sub001/internal/service"
)

// SyncJob triggers synchronization passes on a cron schedule.
//
// A tick that fires while a pass is still running is skipped. The engine
// lock makes the skip explicit, so ticks never queue up.
type SyncJob struct {
	runner   SyncRunner
	schedule cron.Schedule
	expr     string
	onStart  bool
	logger   *logger.Logger
}

// NewSyncJob parses cfg.SyncSchedule and returns a job running runner on it.
func NewSyncJob(cfg config.Workers, runner SyncRunner, logger *logger.Logger) (*SyncJob, error) {
	schedule, err := cron.ParseStandard(cfg.SyncSchedule)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, cfg.SyncSchedule, err)
	}

	return &SyncJob{
		runner:   runner,
		schedule: schedule,
		expr:     cfg.SyncSchedule,
		onStart:  cfg.SyncOnStart,
		logger:   logger.WithStr("worker", "sync"),
	}, nil
}

// Run implements [Worker]. It blocks until ctx is cancelled, then waits for
// a pass in flight to finish.
func (j *SyncJob) Run(ctx context.Context) error {
	c := cron.New()
	c.Schedule(j.schedule, cron.FuncJob(func() {
		j.Trigger(ctx)
	}))

	j.logger.Info().
		Str("func", "SyncJob.Run").
		Str("schedule", j.expr).
		Bool("sync_on_start", j.onStart).
		Msg("sync job started")

	if j.onStart {
		go j.Trigger(ctx)
	}
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()

	j.logger.Info().Str("func", "SyncJob.Run").Msg("sync job stopped")
	return nil
}

// Trigger runs one pass and logs its outcome.
func (j *SyncJob) Trigger(ctx context.Context) {
	err := j.runner.Run(ctx)
	switch {
	case errors.Is(err, service.ErrSyncInProgress):
		j.logger.Info().Str("func", "SyncJob.Trigger").Msg("previous synchronization still running, tick skipped")
	case errors.Is(err, context.Canceled):
		j.logger.Debug().Str("func", "SyncJob.Trigger").Msg("synchronization cancelled")
	case err != nil:
		j.logger.Err(err).Str("func", "SyncJob.Trigger").Msg("scheduled synchronization failed")
	}
}
