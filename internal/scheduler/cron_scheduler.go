package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// CronScheduler runs tasks on a fixed interval. Each run gets its own
// timeout-bounded context so a stuck poll cannot block the next tick.
type CronScheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  logger.Logger
}

func NewCronScheduler(timeout time.Duration, log logger.Logger) ports.Scheduler {
	return &CronScheduler{
		cron:    cron.New(),
		timeout: timeout,
		logger:  log.WithField("component", "cron_scheduler"),
	}
}

func (s *CronScheduler) Schedule(ctx context.Context, interval time.Duration, task ports.Task) error {
	if interval <= 0 {
		return fmt.Errorf("schedule interval must be positive, got %v", interval)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), s.wrapTask(ctx, task))
	if err != nil {
		return fmt.Errorf("failed to schedule task: %w", err)
	}
	s.logger.Infof("Task scheduled every %v (entry %d)", interval, entryID)

	if len(s.cron.Entries()) == 1 {
		s.cron.Start()
	}
	return nil
}

func (s *CronScheduler) wrapTask(ctx context.Context, task ports.Task) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}

		taskCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		started := time.Now()
		if err := task(taskCtx); err != nil {
			s.logger.Errorf("Scheduled task failed: %v", err)
			return
		}
		s.logger.Debugf("Scheduled task completed in %v", time.Since(started))
	}
}

func (s *CronScheduler) Stop() {
	s.logger.Info("Stopping cron scheduler")
	stopped := s.cron.Stop()
	<-stopped.Done()
}
