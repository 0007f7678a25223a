package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/engine"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/eliz29ese/hackUDC26/internal/profile"
	"github.com/eliz29ese/hackUDC26/internal/recommend"
	"github.com/eliz29ese/hackUDC26/internal/window"
)

// EvaluationRequest describes one evaluate call. An inline Profile takes
// precedence over the stored profile of UserID; with neither, catalog
// defaults apply. Empty Indices means every registered index.
type EvaluationRequest struct {
	LocationID  string
	UserID      string
	Profile     *entities.UserProfile
	Start       time.Time
	Duration    time.Duration
	Granularity time.Duration
	Method      window.Method
	Indices     []string
}

// EvaluationService wires profile resolution, window selection, scoring and
// recommendation mapping into the evaluate operation. A new request for a
// location supersedes the one still running there: the older batch is
// cancelled whole and its caller gets the cancellation error.
type EvaluationService struct {
	resolver     *profile.Resolver
	seriesStore  ports.SeriesStore
	profileStore ports.ProfileStore
	selector     *window.Selector
	engine       *engine.Engine
	mapper       *recommend.Mapper
	catalog      *catalog.Catalog
	logger       logger.Logger

	mu       sync.Mutex
	inFlight map[string]context.CancelFunc
}

func NewEvaluationService(
	cat *catalog.Catalog,
	resolver *profile.Resolver,
	seriesStore ports.SeriesStore,
	profileStore ports.ProfileStore,
	selector *window.Selector,
	eng *engine.Engine,
	mapper *recommend.Mapper,
	log logger.Logger,
) *EvaluationService {
	return &EvaluationService{
		resolver:     resolver,
		seriesStore:  seriesStore,
		profileStore: profileStore,
		selector:     selector,
		engine:       eng,
		mapper:       mapper,
		catalog:      cat,
		logger:       log.WithField("component", "evaluation_service"),
		inFlight:     make(map[string]context.CancelFunc),
	}
}

// Evaluate runs the full pipeline for one location and window. Profile
// resolution happens before any data is touched, so configuration errors
// surface without spending work on scoring.
func (s *EvaluationService) Evaluate(ctx context.Context, req EvaluationRequest) (*entities.EvaluationResult, error) {
	if req.LocationID == "" {
		return nil, entities.ConfigurationError{Key: "location_id", Reason: "must not be empty"}
	}

	resolved, err := s.resolveProfile(ctx, req)
	if err != nil {
		return nil, err
	}

	indexIDs := req.Indices
	if len(indexIDs) == 0 {
		indexIDs = s.catalog.IDs()
	}

	series, err := s.loadSeries(ctx, req.LocationID)
	if err != nil {
		return nil, err
	}

	windowed, coverage, err := s.selector.Select(series, window.Request{
		Start:       req.Start,
		Duration:    req.Duration,
		Granularity: req.Granularity,
		Method:      req.Method,
	})
	if err != nil {
		return nil, err
	}

	scoreCtx, cancel := s.supersede(ctx, req.LocationID)
	defer s.release(req.LocationID, cancel)

	results, err := s.engine.Score(scoreCtx, windowed, indexIDs, resolved)
	if err != nil {
		return nil, err
	}

	evaluation := &entities.EvaluationResult{
		ID:              uuid.New().String(),
		LocationID:      req.LocationID,
		Results:         results,
		Recommendations: s.mapper.Map(results, resolved),
		Coverage:        coverage,
		EvaluatedAt:     time.Now().UTC(),
	}
	s.logger.WithFields(map[string]interface{}{
		"location_id": req.LocationID,
		"results":     len(results),
	}).Info("evaluation completed")

	return evaluation, nil
}

func (s *EvaluationService) resolveProfile(ctx context.Context, req EvaluationRequest) (*entities.ResolvedProfile, error) {
	raw := entities.UserProfile{UserID: req.UserID}
	switch {
	case req.Profile != nil:
		raw = *req.Profile
	case req.UserID != "":
		stored, err := s.profileStore.Get(ctx, req.UserID)
		var notFound ports.ErrNotFound
		if errors.As(err, &notFound) {
			// unknown users score with defaults
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %s: %w", req.UserID, err)
		}
		raw = stored
	}
	return s.resolver.Resolve(raw)
}

func (s *EvaluationService) loadSeries(ctx context.Context, locationID string) (entities.NormalizedSeries, error) {
	series, err := s.seriesStore.Get(ctx, locationID)
	var notFound ports.ErrNotFound
	if errors.As(err, &notFound) {
		// no ingested data yet; the selector reports the coverage gap
		return entities.NormalizedSeries{LocationID: locationID}, nil
	}
	if err != nil {
		return entities.NormalizedSeries{}, fmt.Errorf("failed to load series %s: %w", locationID, err)
	}
	return series, nil
}

// supersede cancels the evaluation currently running for the location, if
// any, and registers this one in its place.
func (s *EvaluationService) supersede(ctx context.Context, locationID string) (context.Context, context.CancelFunc) {
	scoreCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if prev, ok := s.inFlight[locationID]; ok {
		prev()
	}
	s.inFlight[locationID] = cancel
	s.mu.Unlock()
	return scoreCtx, cancel
}

func (s *EvaluationService) release(locationID string, cancel context.CancelFunc) {
	s.mu.Lock()
	if current, ok := s.inFlight[locationID]; ok && isSameCancel(current, cancel) {
		delete(s.inFlight, locationID)
	}
	s.mu.Unlock()
	cancel()
}

// isSameCancel compares cancel funcs by pointer so a finished evaluation
// only unregisters itself, never the request that superseded it.
func isSameCancel(a, b context.CancelFunc) bool {
	return fmt.Sprintf("%p", a) == fmt.Sprintf("%p", b)
}

func (s *EvaluationService) HealthCheck(ctx context.Context) error {
	if err := s.seriesStore.HealthCheck(ctx); err != nil {
		return fmt.Errorf("series store unhealthy: %w", err)
	}
	if err := s.profileStore.HealthCheck(ctx); err != nil {
		return fmt.Errorf("profile store unhealthy: %w", err)
	}
	return nil
}
