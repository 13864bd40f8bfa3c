package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	pkgerrors "github.com/moonlabs/moon-agent-backend/internal/pkg/errors"
	"github.com/moonlabs/moon-agent-backend/internal/platform/logger"
)

// Job is one scheduled unit of work. Implementations carry their own
// mutual-exclusion guard and return ErrRunInProgress when an earlier tick is
// still running.
type Job func(ctx context.Context) error

// Scheduler owns a single recurring timer with an explicit start/stop
// lifecycle. Ticks that land while the previous run is still executing are
// skipped, never run in parallel.
type Scheduler struct {
	log      *logger.Logger
	interval time.Duration
	job      Job
	cron     *cron.Cron
}

func New(baseLog *logger.Logger, interval time.Duration, job Job) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", interval)
	}
	if job == nil {
		return nil, fmt.Errorf("scheduler job must not be nil")
	}
	return &Scheduler{
		log:      baseLog.With("component", "Scheduler"),
		interval: interval,
		job:      job,
		cron:     cron.New(),
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		if err := s.job(context.Background()); err != nil {
			if errors.Is(err, pkgerrors.ErrRunInProgress) {
				s.log.Warn("Skipping scheduled run, previous run still executing")
				return
			}
			s.log.Error("Scheduled run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("register scheduled job: %w", err)
	}
	s.cron.Start()
	s.log.Info("Scheduler started", "interval", s.interval)
	return nil
}

// Stop halts the timer and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}
