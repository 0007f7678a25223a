package engine

import (
	"context"
	"runtime"
	"sync"

	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// Engine fans one normalized series out over the requested indices on a
// bounded worker pool. Scoring is pure per (timestamp, index) pair, so the
// pool needs no locking: every job writes its own preallocated slot and the
// output order is fixed before any worker starts.
type Engine struct {
	catalog *catalog.Catalog
	workers int
	logger  logger.Logger
}

// New builds an engine with a fixed pool size. workers <= 0 means one
// worker per CPU.
func New(cat *catalog.Catalog, workers int, log logger.Logger) *Engine {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{
		catalog: cat,
		workers: workers,
		logger:  log.WithField("component", "scoring_engine"),
	}
}

type job struct {
	pos    int
	sample entities.WeatherSample
	index  catalog.Index
}

// Score evaluates every requested index against every sample of the series.
// Results come back grouped by timestamp, indices in request order within
// each timestamp. A cancelled context discards the whole batch: partial
// results are never returned.
func (e *Engine) Score(ctx context.Context, series entities.NormalizedSeries, indexIDs []string, resolved *entities.ResolvedProfile) ([]entities.ScoreResult, error) {
	indices := make([]catalog.Index, 0, len(indexIDs))
	for _, id := range indexIDs {
		index, ok := e.catalog.Get(id)
		if !ok {
			return nil, entities.ConfigurationError{Key: "indices", Reason: "unknown index " + id}
		}
		indices = append(indices, index)
	}
	if series.IsEmpty() || len(indices) == 0 {
		return []entities.ScoreResult{}, nil
	}

	results := make([]entities.ScoreResult, len(series.Samples)*len(indices))
	jobs := make(chan job)

	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				results[j.pos] = e.scoreOne(j.sample, j.index, resolved)
			}
		}()
	}

	var cancelled error
feed:
	for si, sample := range series.Samples {
		for ii, index := range indices {
			select {
			case jobs <- job{pos: si*len(indices) + ii, sample: sample, index: index}:
			case <-ctx.Done():
				cancelled = ctx.Err()
				break feed
			}
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled == nil {
		cancelled = ctx.Err()
	}
	if cancelled != nil {
		e.logger.WithField("location_id", series.LocationID).Warn("scoring batch discarded: ", cancelled)
		return nil, cancelled
	}

	return results, nil
}

func (e *Engine) scoreOne(sample entities.WeatherSample, index catalog.Index, resolved *entities.ResolvedProfile) entities.ScoreResult {
	output, confidence, ok := index.Formula(sample, resolved)
	if !ok {
		return entities.ScoreResult{
			Timestamp:  sample.Timestamp,
			IndexID:    index.Definition.ID,
			Value:      nil,
			Confidence: 0,
			Warning:    entities.WarnComputationDegraded,
		}
	}
	value := output.Value
	return entities.ScoreResult{
		Timestamp:  sample.Timestamp,
		IndexID:    index.Definition.ID,
		Value:      &value,
		Band:       output.Band,
		Detail:     output.Detail,
		Confidence: confidence,
	}
}
