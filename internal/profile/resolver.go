package profile

import (
	"fmt"
	"sort"

	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// Resolver turns raw user profiles into the canonical parameter set the
// scoring engine consumes. Resolution is where all personalization
// validation happens; formulas downstream assume a resolved profile is
// internally consistent.
type Resolver struct {
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewResolver(cat *catalog.Catalog, log logger.Logger) *Resolver {
	return &Resolver{
		catalog: cat,
		logger:  log.WithField("component", "profile_resolver"),
	}
}

// Resolve validates and normalizes a user profile against the catalog.
//
// Weights must be non-negative and keyed by known metric names; they are
// rescaled per index to sum to 1. When the user supplies no weights for an
// index that takes them, catalog defaults apply. Thresholds the user sets
// override catalog defaults by name; unknown threshold names are rejected,
// and an index whose required threshold resolves to nothing is a
// configuration error.
func (r *Resolver) Resolve(profile entities.UserProfile) (*entities.ResolvedProfile, error) {
	for metric, weight := range profile.Weights {
		if !r.catalog.KnownMetric(metric) {
			return nil, entities.ConfigurationError{
				Key:    "weights." + metric,
				Reason: "unknown metric name",
			}
		}
		if weight < 0 {
			return nil, entities.ConfigurationError{
				Key:    "weights." + metric,
				Reason: fmt.Sprintf("weight must be non-negative, got %g", weight),
			}
		}
	}

	params, err := r.resolveThresholds(profile.Thresholds)
	if err != nil {
		return nil, err
	}

	weights := make(map[string]map[string]float64)
	for _, indexID := range r.catalog.IDs() {
		defaults := r.catalog.DefaultWeights(indexID)
		if defaults == nil {
			continue
		}
		normalized, err := r.normalizeWeights(indexID, defaults, profile.Weights)
		if err != nil {
			return nil, err
		}
		weights[indexID] = normalized
	}

	r.logger.WithField("user_id", profile.UserID).Debug("profile resolved")
	return entities.NewResolvedProfile(profile.UserID, weights, params), nil
}

// resolveThresholds overlays user thresholds on catalog defaults and checks
// that every index's required parameters end up present.
func (r *Resolver) resolveThresholds(overrides map[string]float64) (map[string]float64, error) {
	params := make(map[string]float64)
	for _, indexID := range r.catalog.IDs() {
		for _, name := range r.catalog.RequiredThresholds(indexID) {
			if _, done := params[name]; done {
				continue
			}
			value, ok := r.catalog.DefaultThreshold(name)
			if !ok {
				if _, userSet := overrides[name]; !userSet {
					return nil, entities.ConfigurationError{
						Key:    "thresholds." + name,
						Reason: fmt.Sprintf("required by index %q and no default configured", indexID),
					}
				}
				continue
			}
			params[name] = value
		}
	}

	for name, value := range overrides {
		if _, known := params[name]; !known {
			if _, hasDefault := r.catalog.DefaultThreshold(name); !hasDefault {
				return nil, entities.ConfigurationError{
					Key:    "thresholds." + name,
					Reason: "unknown threshold name",
				}
			}
		}
		params[name] = value
	}
	return params, nil
}

// normalizeWeights merges user weights over index defaults and rescales so
// they sum to 1. A user weight only applies to metrics the index actually
// weighs; the rest keep their default.
func (r *Resolver) normalizeWeights(indexID string, defaults, user map[string]float64) (map[string]float64, error) {
	merged := make(map[string]float64, len(defaults))
	for metric, weight := range defaults {
		merged[metric] = weight
	}
	for metric, weight := range user {
		if _, weighs := merged[metric]; weighs {
			merged[metric] = weight
		}
	}

	sum := 0.0
	for _, weight := range merged {
		sum += weight
	}
	if sum <= 0 {
		metrics := make([]string, 0, len(merged))
		for metric := range merged {
			metrics = append(metrics, metric)
		}
		sort.Strings(metrics)
		return nil, entities.ConfigurationError{
			Key:    "weights",
			Reason: fmt.Sprintf("weights for index %q sum to zero across %v", indexID, metrics),
		}
	}

	for metric := range merged {
		merged[metric] /= sum
	}
	return merged, nil
}
