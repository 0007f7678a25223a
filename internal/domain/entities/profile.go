package entities

// UserProfile is the raw, user-supplied personalization: per-metric weights
// and named thresholds. It is validated by the profile resolver before any
// scoring happens; nothing downstream consumes it directly.
type UserProfile struct {
	UserID     string             `json:"user_id"`
	Weights    map[string]float64 `json:"weights,omitempty"`
	Thresholds map[string]float64 `json:"thresholds,omitempty"`
}

// ResolvedProfile is the canonical parameter set produced by the resolver.
// Weights are rescaled per index to sum to 1 and thresholds are filled in
// from catalog defaults. The value is immutable: accessors copy nothing out
// that could be used to mutate internal state.
type ResolvedProfile struct {
	userID  string
	weights map[string]map[string]float64 // indexID -> metric -> normalized weight
	params  map[string]float64            // threshold name -> value
}

func NewResolvedProfile(userID string, weights map[string]map[string]float64, params map[string]float64) *ResolvedProfile {
	w := make(map[string]map[string]float64, len(weights))
	for indexID, metrics := range weights {
		m := make(map[string]float64, len(metrics))
		for k, v := range metrics {
			m[k] = v
		}
		w[indexID] = m
	}
	p := make(map[string]float64, len(params))
	for k, v := range params {
		p[k] = v
	}
	return &ResolvedProfile{userID: userID, weights: w, params: p}
}

func (p *ResolvedProfile) UserID() string {
	return p.userID
}

// Weight returns the normalized weight of a metric within an index.
func (p *ResolvedProfile) Weight(indexID, metric string) float64 {
	return p.weights[indexID][metric]
}

// Param returns a resolved threshold value by name. The resolver guarantees
// that every threshold an index requires is present.
func (p *ResolvedProfile) Param(name string) float64 {
	return p.params[name]
}

// HasParam reports whether a threshold was resolved.
func (p *ResolvedProfile) HasParam(name string) bool {
	_, ok := p.params[name]
	return ok
}
