package recommend

import (
	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// Mapper collapses the per-timestamp score results of a window into one
// discrete recommendation per index. Quality indices aggregate by mean so a
// single bad hour cannot sink an otherwise fine day; risk indices aggregate
// by the worst case so a single dangerous hour does dominate.
type Mapper struct {
	catalog *catalog.Catalog
	logger  logger.Logger
}

func NewMapper(cat *catalog.Catalog, log logger.Logger) *Mapper {
	return &Mapper{
		catalog: cat,
		logger:  log.WithField("component", "recommendation_mapper"),
	}
}

// Map aggregates results per index, in first-seen order. Degraded results
// are excluded from aggregation; an index whose results all degraded yields
// no recommendation at all rather than a fabricated one.
func (m *Mapper) Map(results []entities.ScoreResult, resolved *entities.ResolvedProfile) []entities.Recommendation {
	order := make([]string, 0)
	grouped := make(map[string][]entities.ScoreResult)
	for _, result := range results {
		if result.Degraded() {
			continue
		}
		if _, seen := grouped[result.IndexID]; !seen {
			order = append(order, result.IndexID)
		}
		grouped[result.IndexID] = append(grouped[result.IndexID], result)
	}

	recommendations := make([]entities.Recommendation, 0, len(order))
	for _, indexID := range order {
		index, ok := m.catalog.Get(indexID)
		if !ok {
			m.logger.WithField("index_id", indexID).Warn("result for unregistered index skipped")
			continue
		}
		recommendation, ok := m.aggregate(index, grouped[indexID], resolved)
		if ok {
			recommendations = append(recommendations, recommendation)
		}
	}
	return recommendations
}

func (m *Mapper) aggregate(index catalog.Index, results []entities.ScoreResult, resolved *entities.ResolvedProfile) (entities.Recommendation, bool) {
	if index.Banding.Categorical() {
		return m.worstCategory(index, results)
	}

	var value float64
	switch index.Definition.Polarity {
	case entities.PolarityRisk:
		for _, result := range results {
			if *result.Value > value {
				value = *result.Value
			}
		}
	default:
		sum := 0.0
		for _, result := range results {
			sum += *result.Value
		}
		value = sum / float64(len(results))
	}

	band, rank, ok := m.catalog.Band(index.Definition.ID, value, resolved)
	if !ok {
		return entities.Recommendation{}, false
	}
	return entities.Recommendation{
		IndexID:  index.Definition.ID,
		Category: band,
		Rank:     rank,
	}, true
}

// worstCategory picks the heaviest band any timestamp produced, using the
// band's position in the index's ordered band set as its rank.
func (m *Mapper) worstCategory(index catalog.Index, results []entities.ScoreResult) (entities.Recommendation, bool) {
	ranks := make(map[string]int, len(index.Definition.Bands))
	for i, band := range index.Definition.Bands {
		ranks[band] = i
	}

	worst, found := entities.Recommendation{IndexID: index.Definition.ID}, false
	for _, result := range results {
		rank, known := ranks[result.Band]
		if !known {
			continue
		}
		if !found || rank > worst.Rank {
			worst.Category, worst.Rank = result.Band, rank
			found = true
		}
	}
	return worst, found
}
