package ports

import (
	"context"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

// SampleFetcher retrieves raw forecast samples from the regional weather
// API. Failures may be entities.TransientNetworkError; retrying is the
// caller's decision.
type SampleFetcher interface {
	FetchSamples(ctx context.Context, locationID string, from, to time.Time) ([]entities.WeatherSample, error)
	HealthCheck(ctx context.Context) error
}
