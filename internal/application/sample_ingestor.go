package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/eliz29ese/hackUDC26/internal/normalizer"
)

// SampleIngestor consumes raw sample batches, merges each with the stored
// series for its location, and persists the re-normalized result. Batches
// arriving out of order are harmless: normalization resolves overlapping
// grid slots last-write-wins and is idempotent, so replays converge on the
// same stored series.
type SampleIngestor struct {
	normalizer *normalizer.Normalizer
	store      ports.SeriesStore
	logger     logger.Logger
}

func NewSampleIngestor(norm *normalizer.Normalizer, store ports.SeriesStore, log logger.Logger) *SampleIngestor {
	return &SampleIngestor{
		normalizer: norm,
		store:      store,
		logger:     log.WithField("component", "sample_ingestor"),
	}
}

// Ingest handles one batch. A ValidationError from normalization rejects
// the whole batch and leaves the stored series untouched.
func (s *SampleIngestor) Ingest(ctx context.Context, batch ports.SampleBatch) error {
	if batch.LocationID == "" {
		return entities.ValidationError{Field: "location_id", Reason: "must not be empty"}
	}
	if len(batch.Samples) == 0 {
		s.logger.WithField("location_id", batch.LocationID).Debug("empty batch skipped")
		return nil
	}

	existing, err := s.store.Get(ctx, batch.LocationID)
	var notFound ports.ErrNotFound
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to load series %s: %w", batch.LocationID, err)
	}

	merged := make([]entities.WeatherSample, 0, len(existing.Samples)+len(batch.Samples))
	merged = append(merged, existing.Samples...)
	merged = append(merged, batch.Samples...)

	series, err := s.normalizer.Normalize(batch.LocationID, merged)
	if err != nil {
		return fmt.Errorf("batch for %s rejected: %w", batch.LocationID, err)
	}

	if err := s.store.Put(ctx, series); err != nil {
		return fmt.Errorf("failed to store series %s: %w", batch.LocationID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"location_id": batch.LocationID,
		"incoming":    len(batch.Samples),
		"stored":      len(series.Samples),
	}).Info("batch ingested")
	return nil
}

func (s *SampleIngestor) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}
