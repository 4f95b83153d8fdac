// Package cronjob runs periodic background jobs against the project store.
package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultJobTimeout = 30 * time.Second

// Snapshotter writes the full project collection to durable storage.
type Snapshotter interface {
	Snapshot(ctx context.Context) error
}

type Scheduler struct {
	cron       *cron.Cron
	snap       Snapshotter
	log        *zap.Logger
	jobTimeout time.Duration
}

func NewScheduler(snap Snapshotter, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		snap:       snap,
		log:        log,
		jobTimeout: defaultJobTimeout,
	}
}

// Start registers the snapshot job on a six-field (with seconds) schedule
// and starts the cron runner. An empty schedule starts nothing.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.log.Info("snapshot scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		_ = s.RunSnapshot(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule snapshot job: %w", err)
	}

	s.cron.Start()
	s.log.Info("snapshot scheduler started", zap.String("schedule", schedule))
	return nil
}

// RunSnapshot performs one snapshot with the job timeout applied.
func (s *Scheduler) RunSnapshot(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	start := time.Now()
	if err := s.snap.Snapshot(ctx); err != nil {
		s.log.Error("snapshot failed", zap.Error(err))
		return err
	}
	s.log.Debug("snapshot completed", zap.Duration("took", time.Since(start)))
	return nil
}

// Stop halts the runner and waits for a running job, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("snapshot job still running at shutdown")
	}
}
