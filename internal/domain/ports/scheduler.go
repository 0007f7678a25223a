package ports

import (
	"context"
	"time"
)

type Task func(ctx context.Context) error

// Scheduler runs a task on a fixed interval until stopped.
type Scheduler interface {
	Schedule(ctx context.Context, interval time.Duration, task Task) error
	Stop()
}
