package catalog

import (
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

// dayQualityMetrics are the comfort axes of the day-quality index, each
// scored by a piecewise-linear function over its configured optimal range.
var dayQualityMetrics = []string{
	entities.MetricTemperature,
	entities.MetricWindSpeed,
	entities.MetricPrecipitation,
	entities.MetricVisibility,
}

var dayQualityBands = bandSpec{
	base: "poor",
	steps: []bandStep{
		{"fair", "day_quality_fair_min"},
		{"good", "day_quality_good_min"},
		{"excellent", "day_quality_excellent_min"},
	},
}

func newDayQualityIndex() Index {
	return Index{
		Banding: dayQualityBands,
		Definition: entities.IndexDefinition{
			ID:             entities.IndexDayQuality,
			OptionalFields: dayQualityMetrics,
			RequiredThresholds: []string{
				"temperature_optimal_lo", "temperature_optimal_hi", "temperature_falloff",
				"wind_speed_optimal_lo", "wind_speed_optimal_hi", "wind_speed_falloff",
				"precipitation_optimal_lo", "precipitation_optimal_hi", "precipitation_falloff",
				"visibility_optimal_lo", "visibility_optimal_hi", "visibility_falloff",
				"day_quality_fair_min", "day_quality_good_min", "day_quality_excellent_min",
			},
			Bands:    []string{"poor", "fair", "good", "excellent"},
			Polarity: entities.PolarityQuality,
		},
		Formula: dayQuality,
	}
}

// dayQuality is a weighted sum of per-metric comfort sub-scores. The index
// supports partial inputs: weights of missing metrics are dropped and the
// rest renormalized, with confidence equal to the weight fraction that was
// actually available.
func dayQuality(sample entities.WeatherSample, resolved *entities.ResolvedProfile) (entities.IndexOutput, float64, bool) {
	totalWeight, availableWeight := 0.0, 0.0
	weightedSum := 0.0
	detail := make(map[string]float64, len(dayQualityMetrics))

	for _, metric := range dayQualityMetrics {
		weight := resolved.Weight(entities.IndexDayQuality, metric)
		totalWeight += weight
		value, present := sample.Field(metric)
		if !present {
			continue
		}
		sub := comfortSubScore(value,
			resolved.Param(metric+"_optimal_lo"),
			resolved.Param(metric+"_optimal_hi"),
			resolved.Param(metric+"_falloff"),
		)
		detail[metric] = sub
		weightedSum += weight * sub
		availableWeight += weight
	}

	if availableWeight == 0 || totalWeight == 0 {
		return entities.IndexOutput{}, 0, false
	}

	score := clampScore(weightedSum / availableWeight)
	band, _ := dayQualityBands.bandFor(score, resolved)

	return entities.IndexOutput{
		Value:  score,
		Band:   band,
		Detail: detail,
	}, availableWeight / totalWeight, true
}

// comfortSubScore is 100 inside [lo, hi] and falls off linearly to 0 over
// the falloff width on either side.
func comfortSubScore(value, lo, hi, falloff float64) float64 {
	if value >= lo && value <= hi {
		return 100
	}
	if falloff <= 0 {
		return 0
	}
	var distance float64
	if value < lo {
		distance = lo - value
	} else {
		distance = value - hi
	}
	return clampScore(100 * (1 - distance/falloff))
}
