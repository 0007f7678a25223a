package ports

import (
	"context"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

// SeriesStore is a key-based store for normalized series. Values are
// immutable once written, so no transactional guarantees are needed.
type SeriesStore interface {
	Put(ctx context.Context, series entities.NormalizedSeries) error
	Get(ctx context.Context, locationID string) (entities.NormalizedSeries, error)
	HealthCheck(ctx context.Context) error
}

// ProfileStore persists user profiles across sessions.
type ProfileStore interface {
	Put(ctx context.Context, profile entities.UserProfile) error
	Get(ctx context.Context, userID string) (entities.UserProfile, error)
	HealthCheck(ctx context.Context) error
}

// ErrNotFound is returned by stores when a key has no value.
type ErrNotFound struct {
	Key string
}

func (e ErrNotFound) Error() string {
	return "not found: " + e.Key
}
