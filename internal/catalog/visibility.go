package catalog

import (
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

var visibilityBands = bandSpec{
	base: "hazardous",
	steps: []bandStep{
		{"poor", "visibility_poor_min"},
		{"reduced", "visibility_reduced_min"},
		{"clear", "visibility_clear_min"},
	},
}

func newVisibilityIndex() Index {
	return Index{
		Banding: visibilityBands,
		Definition: entities.IndexDefinition{
			ID:             entities.IndexVisibility,
			RequiredFields: []string{entities.MetricVisibility},
			OptionalFields: []string{
				entities.MetricCloudCover,
				entities.MetricPrecipitation,
			},
			RequiredThresholds: []string{
				"visibility_clear_distance", "visibility_cloud_penalty", "visibility_precip_penalty",
				"visibility_poor_min", "visibility_reduced_min", "visibility_clear_min",
			},
			Bands:    []string{"hazardous", "poor", "reduced", "clear"},
			Polarity: entities.PolarityQuality,
		},
		Formula: maritimeVisibility,
	}
}

// maritimeVisibility scores sighting conditions at sea from visibility
// distance, penalized by cloud cover and precipitation intensity. Cloud and
// precipitation are optional; confidence is the fraction of the three
// inputs that were present.
func maritimeVisibility(sample entities.WeatherSample, resolved *entities.ResolvedProfile) (entities.IndexOutput, float64, bool) {
	distance, ok := sample.Field(entities.MetricVisibility)
	if !ok {
		return entities.IndexOutput{}, 0, false
	}

	present := 1.0
	clearDistance := resolved.Param("visibility_clear_distance")
	score := 100.0
	if clearDistance > 0 && distance < clearDistance {
		score = 100 * distance / clearDistance
	}

	if cloud, cloudOK := sample.Field(entities.MetricCloudCover); cloudOK {
		score -= cloud * resolved.Param("visibility_cloud_penalty")
		present++
	}
	if precip, precipOK := sample.Field(entities.MetricPrecipitation); precipOK {
		score -= precip * resolved.Param("visibility_precip_penalty")
		present++
	}
	score = clampScore(score)

	band, _ := visibilityBands.bandFor(score, resolved)

	return entities.IndexOutput{
		Value: score,
		Band:  band,
		Detail: map[string]float64{
			"visibility_meters": distance,
		},
	}, present / 3, true
}
