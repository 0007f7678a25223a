package entities

import (
	"time"
)

// ScoreResult is one evaluated (timestamp, index) pair. Value is nil when
// the formula's required inputs were missing; in that case Confidence is 0
// and Warning carries WarnComputationDegraded. A present Value is always in
// [0,100]. Results are ephemeral and recomputed on every evaluation request.
type ScoreResult struct {
	Timestamp  time.Time          `json:"timestamp"`
	IndexID    string             `json:"index_id"`
	Value      *float64           `json:"value"`
	Band       string             `json:"band,omitempty"`
	Detail     map[string]float64 `json:"detail,omitempty"`
	Confidence float64            `json:"confidence"`
	Warning    WarningTag         `json:"warning,omitempty"`
}

// Degraded reports whether this result was computed from incomplete input.
func (r ScoreResult) Degraded() bool {
	return r.Warning == WarnComputationDegraded
}

// Recommendation is a discrete category derived from the score results of
// one index over the evaluated window.
type Recommendation struct {
	IndexID  string `json:"index_id"`
	Category string `json:"category"`
	// Rank is the category's position in the index's ordered band set.
	Rank int `json:"rank"`
}

// EvaluationResult is the full outcome of one evaluate call: scores in
// timestamp order, derived recommendations, and the coverage warning when
// the requested window exceeded the stored data.
type EvaluationResult struct {
	ID              string               `json:"id"`
	LocationID      string               `json:"location_id"`
	Results         []ScoreResult        `json:"results"`
	Recommendations []Recommendation     `json:"recommendations"`
	Coverage        *DataCoverageWarning `json:"coverage_warning,omitempty"`
	EvaluatedAt     time.Time            `json:"evaluated_at"`
}
