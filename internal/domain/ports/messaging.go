package ports

import (
	"context"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

// SampleBatch is the unit carried between the poller and the API service.
type SampleBatch struct {
	LocationID string                   `json:"location_id"`
	Samples    []entities.WeatherSample `json:"samples"`
}

// SampleProducer publishes raw sample batches for ingestion.
type SampleProducer interface {
	Produce(ctx context.Context, batch SampleBatch) error
	ProduceAll(ctx context.Context, batches []SampleBatch) error
	HealthCheck(ctx context.Context) error
	Close() error
}

// SampleConsumer delivers raw sample batches to a handler.
type SampleConsumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, batch SampleBatch) error) error
	HealthCheck(ctx context.Context) error
	Close() error
}
