package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

type namedCheck struct {
	name  string
	check func(ctx context.Context) error
}

// HealthChecker runs registered dependency checks, once at startup and
// periodically afterwards. Startup failures are fatal; periodic failures
// are logged and the service keeps running.
type HealthChecker struct {
	cfg    config.HealthCheckConfig
	logger logger.Logger
	checks []namedCheck
}

func NewHealthChecker(cfg config.HealthCheckConfig, log logger.Logger) *HealthChecker {
	return &HealthChecker{
		cfg:    cfg,
		logger: log.WithField("component", "health_checker"),
	}
}

func (h *HealthChecker) Register(name string, check func(ctx context.Context) error) {
	h.checks = append(h.checks, namedCheck{name: name, check: check})
}

func (h *HealthChecker) CheckAll(ctx context.Context) error {
	for _, c := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
		err := c.check(checkCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("%s health check failed: %w", c.name, err)
		}
		h.logger.Debugf("Health check passed for %s", c.name)
	}
	return nil
}

func (h *HealthChecker) RunPeriodic(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(h.cfg.StartupDelay):
	}

	ticker := time.NewTicker(h.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range h.checks {
				checkCtx, cancel := context.WithTimeout(ctx, h.cfg.Timeout)
				if err := c.check(checkCtx); err != nil {
					h.logger.Errorf("Health check failed for %s: %v", c.name, err)
				}
				cancel()
			}
		}
	}
}
