package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// PollService drives the ingest side: on every scheduler tick it fetches a
// forecast horizon for each configured location and publishes the raw
// batches. A transient upstream failure skips that location for the cycle
// instead of failing the whole tick.
type PollService struct {
	fetcher     ports.SampleFetcher
	producer    ports.SampleProducer
	scheduler   ports.Scheduler
	logger      logger.Logger
	locationIDs []string
	horizon     time.Duration
}

func NewPollService(
	fetcher ports.SampleFetcher,
	producer ports.SampleProducer,
	scheduler ports.Scheduler,
	locationIDs []string,
	horizon time.Duration,
	log logger.Logger,
) *PollService {
	return &PollService{
		fetcher:     fetcher,
		producer:    producer,
		scheduler:   scheduler,
		logger:      log.WithField("component", "poll_service"),
		locationIDs: locationIDs,
		horizon:     horizon,
	}
}

func (s *PollService) Start(ctx context.Context, interval time.Duration) error {
	s.logger.Infof("Starting poll service for %d locations with interval %v", len(s.locationIDs), interval)

	if err := s.scheduler.Schedule(ctx, interval, s.pollAndPublish); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

func (s *PollService) Stop() {
	s.logger.Info("Stopping poll service")
	s.scheduler.Stop()

	if err := s.producer.Close(); err != nil {
		s.logger.Errorf("Failed to close producer: %v", err)
	}
}

func (s *PollService) pollAndPublish(ctx context.Context) error {
	started := time.Now()
	from := started.UTC().Truncate(time.Hour)
	to := from.Add(s.horizon)

	batches := make([]ports.SampleBatch, 0, len(s.locationIDs))
	var failed int
	for _, locationID := range s.locationIDs {
		samples, err := s.fetcher.FetchSamples(ctx, locationID, from, to)
		if err != nil {
			failed++
			var transient entities.TransientNetworkError
			if errors.As(err, &transient) {
				s.logger.Warnf("Skipping %s this cycle: %v", locationID, err)
				continue
			}
			s.logger.Errorf("Failed to fetch samples for %s: %v", locationID, err)
			continue
		}
		batches = append(batches, ports.SampleBatch{LocationID: locationID, Samples: samples})
	}

	if len(batches) == 0 {
		if failed > 0 {
			return fmt.Errorf("poll cycle produced no batches, %d locations failed", failed)
		}
		return nil
	}

	if err := s.producer.ProduceAll(ctx, batches); err != nil {
		return fmt.Errorf("failed to publish sample batches: %w", err)
	}

	s.logger.Infof("Poll cycle completed in %v: %d batches published, %d locations failed",
		time.Since(started), len(batches), failed)
	return nil
}

func (s *PollService) HealthCheck(ctx context.Context) error {
	if err := s.fetcher.HealthCheck(ctx); err != nil {
		return fmt.Errorf("fetcher health check failed: %w", err)
	}
	if err := s.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}
	return nil
}
