package catalog

import (
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

var coldShockBands = bandSpec{
	base: "low",
	steps: []bandStep{
		{"moderate", "cold_shock_moderate_min"},
		{"high", "cold_shock_high_min"},
		{"severe", "cold_shock_severe_min"},
	},
}

func newColdShockIndex() Index {
	return Index{
		Banding: coldShockBands,
		Definition: entities.IndexDefinition{
			ID:             entities.IndexColdShock,
			RequiredFields: []string{entities.MetricWindSpeed},
			OptionalFields: []string{
				entities.MetricWaterTemperature,
				entities.MetricTemperature,
				entities.MetricHumidity,
			},
			RequiredThresholds: []string{
				"cold_shock_ref_temp", "cold_shock_temp_coef", "cold_shock_wind_coef",
				"cold_shock_humidity_coef", "cold_shock_base_minutes", "cold_shock_minutes_slope",
				"cold_shock_moderate_min", "cold_shock_high_min", "cold_shock_severe_min",
			},
			Bands:    []string{"low", "moderate", "high", "severe"},
			Polarity: entities.PolarityRisk,
		},
		Formula: coldShock,
	}
}

// coldShock estimates post-swim discomfort onset from water temperature
// (falling back to air temperature as a proxy), exit wind speed, and
// humidity. Every coefficient is a resolved parameter.
func coldShock(sample entities.WeatherSample, resolved *entities.ResolvedProfile) (entities.IndexOutput, float64, bool) {
	wind, windOK := sample.Field(entities.MetricWindSpeed)
	if !windOK {
		return entities.IndexOutput{}, 0, false
	}

	water, waterOK := sample.Field(entities.MetricWaterTemperature)
	if !waterOK {
		// air temperature proxy when no sea-water reading is available
		air, airOK := sample.Field(entities.MetricTemperature)
		if !airOK {
			return entities.IndexOutput{}, 0, false
		}
		water = air
	}

	risk := (resolved.Param("cold_shock_ref_temp")-water)*resolved.Param("cold_shock_temp_coef") +
		wind*resolved.Param("cold_shock_wind_coef")
	if humidity, ok := sample.Field(entities.MetricHumidity); ok && humidity > 50 {
		risk += (humidity - 50) * resolved.Param("cold_shock_humidity_coef")
	}
	risk = clampScore(risk)

	minutes := resolved.Param("cold_shock_base_minutes") - risk*resolved.Param("cold_shock_minutes_slope")
	if minutes < 1 {
		minutes = 1
	}

	band, _ := coldShockBands.bandFor(risk, resolved)

	return entities.IndexOutput{
		Value: risk,
		Band:  band,
		Detail: map[string]float64{
			"minutes_to_discomfort": minutes,
			"water_temperature":     water,
		},
	}, 1, true
}
