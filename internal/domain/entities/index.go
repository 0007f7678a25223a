package entities

// Index identifiers known to the catalog.
const (
	IndexDayQuality = "day_quality"
	IndexClothing   = "clothing"
	IndexColdShock  = "cold_shock"
	IndexVisibility = "visibility"
)

// Polarity states which direction of a score is favorable. It drives the
// tie-break rule when a score lands exactly on a band boundary.
type Polarity int

const (
	// PolarityQuality: higher score is better (day-quality, visibility).
	PolarityQuality Polarity = iota
	// PolarityRisk: higher score is worse (cold-shock, clothing exposure).
	PolarityRisk
)

// IndexDefinition describes an index formula's contract: which sample
// fields it needs, which thresholds the resolver must supply, and the shape
// of its output. Definitions are fixed at catalog load time.
type IndexDefinition struct {
	ID                 string
	RequiredFields     []string
	OptionalFields     []string
	RequiredThresholds []string
	Bands              []string // ordered worst-to-best for quality, best-to-worst for risk; empty for purely continuous output
	Polarity           Polarity
}

// IndexOutput is the raw result of one formula evaluation. Value is always
// in [0,100]; Band is empty for purely continuous indices; Detail carries
// supplementary numbers such as a minutes-to-discomfort estimate.
type IndexOutput struct {
	Value  float64
	Band   string
	Detail map[string]float64
}
