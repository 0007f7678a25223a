package catalog

import (
	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

// Formula is a pure, deterministic function from one sample and the
// resolved profile parameters to an index output. The second return value
// is the confidence in [0,1]; ok is false when required input was missing
// and the (timestamp, index) pair must degrade instead of scoring.
type Formula func(sample entities.WeatherSample, resolved *entities.ResolvedProfile) (output entities.IndexOutput, confidence float64, ok bool)

// Index pairs a definition with its formula. Banding is empty for indices
// whose bands are categorical decisions rather than value thresholds.
type Index struct {
	Definition entities.IndexDefinition
	Formula    Formula
	Banding    bandSpec
}

// Catalog is the process-wide index registry: built once from declarative
// configuration, read-only afterwards, safe for concurrent access without
// synchronization.
type Catalog struct {
	indices        map[string]Index
	order          []string
	metrics        map[string]bool
	defaults       map[string]float64
	defaultWeights map[string]map[string]float64
}

// New builds the catalog from configuration. Every threshold, coefficient
// and band boundary the formulas use comes from cfg; none is hardcoded.
func New(cfg config.IndicesConfig) *Catalog {
	c := &Catalog{
		indices:  make(map[string]Index),
		metrics:  make(map[string]bool),
		defaults: make(map[string]float64, len(cfg.Thresholds)),
		defaultWeights: map[string]map[string]float64{
			entities.IndexDayQuality: {},
		},
	}
	for name, value := range cfg.Thresholds {
		c.defaults[name] = value
	}
	for metric, weight := range cfg.DayQualityWeights {
		c.defaultWeights[entities.IndexDayQuality][metric] = weight
		c.metrics[metric] = true
	}

	c.register(newDayQualityIndex())
	c.register(newClothingIndex())
	c.register(newColdShockIndex())
	c.register(newVisibilityIndex())

	return c
}

func (c *Catalog) register(index Index) {
	c.indices[index.Definition.ID] = index
	c.order = append(c.order, index.Definition.ID)
}

// Get returns an index by identifier.
func (c *Catalog) Get(id string) (Index, bool) {
	index, ok := c.indices[id]
	return index, ok
}

// IDs returns every registered index identifier in registration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// KnownMetric reports whether a metric name is a recognized weight key.
func (c *Catalog) KnownMetric(name string) bool {
	return c.metrics[name]
}

// DefaultWeights returns the configured default weights for an index, or
// nil when the index takes no weights.
func (c *Catalog) DefaultWeights(indexID string) map[string]float64 {
	weights, ok := c.defaultWeights[indexID]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(weights))
	for k, v := range weights {
		out[k] = v
	}
	return out
}

// DefaultThreshold returns the configured default for a threshold name.
func (c *Catalog) DefaultThreshold(name string) (float64, bool) {
	value, ok := c.defaults[name]
	return value, ok
}

// RequiredThresholds lists the threshold names an index needs resolved.
func (c *Catalog) RequiredThresholds(indexID string) []string {
	index, ok := c.indices[indexID]
	if !ok {
		return nil
	}
	out := make([]string, len(index.Definition.RequiredThresholds))
	copy(out, index.Definition.RequiredThresholds)
	return out
}

type bandStep struct {
	name  string
	param string
}

// bandSpec maps a numeric value onto ordered bands whose minimums come from
// resolved profile parameters. Steps are ascending; a value exactly on a
// boundary takes the higher band. For risk indices the higher band is the
// safer call, for quality indices the more favorable one.
type bandSpec struct {
	base  string
	steps []bandStep
}

func (s bandSpec) bandFor(value float64, resolved *entities.ResolvedProfile) (string, int) {
	band, rank := s.base, 0
	for i, step := range s.steps {
		if value >= resolved.Param(step.param) {
			band, rank = step.name, i+1
		}
	}
	return band, rank
}

func (s bandSpec) Categorical() bool {
	return len(s.steps) == 0
}

// Band maps an aggregate value onto an index's band set with the same
// boundaries its formula uses. ok is false when the index is unknown or its
// bands are categorical rather than value-derived.
func (c *Catalog) Band(indexID string, value float64, resolved *entities.ResolvedProfile) (string, int, bool) {
	index, found := c.indices[indexID]
	if !found || index.Banding.Categorical() {
		return "", 0, false
	}
	band, rank := index.Banding.bandFor(value, resolved)
	return band, rank, true
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
