package catalog

import (
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
)

// Clothing layers ordered lightest to heaviest. The rank doubles as the
// risk ordering used by the recommendation mapper.
var clothingLayers = []string{"none", "light-layer", "windproof", "waterproof", "insulated"}

// clothingRule is one guarded variant of the decision list. Rules are
// evaluated top to bottom; the first matching guard wins.
type clothingRule struct {
	category string
	rank     int
	guard    func(adjusted float64, raining bool, resolved *entities.ResolvedProfile) bool
}

// clothingRules keeps the rule order auditable in one place instead of
// burying it in nested branches.
var clothingRules = []clothingRule{
	{
		category: "insulated", rank: 4,
		guard: func(adjusted float64, _ bool, resolved *entities.ResolvedProfile) bool {
			return adjusted < resolved.Param("clothing_insulated_below")
		},
	},
	{
		category: "waterproof", rank: 3,
		guard: func(_ float64, raining bool, _ *entities.ResolvedProfile) bool {
			return raining
		},
	},
	{
		category: "windproof", rank: 2,
		guard: func(adjusted float64, _ bool, resolved *entities.ResolvedProfile) bool {
			return adjusted < resolved.Param("clothing_windproof_below")
		},
	},
	{
		category: "light-layer", rank: 1,
		guard: func(adjusted float64, _ bool, resolved *entities.ResolvedProfile) bool {
			return adjusted < resolved.Param("clothing_light_layer_below")
		},
	},
	{
		category: "none", rank: 0,
		guard: func(_ float64, _ bool, _ *entities.ResolvedProfile) bool {
			return true
		},
	},
}

func newClothingIndex() Index {
	return Index{
		Definition: entities.IndexDefinition{
			ID: entities.IndexClothing,
			RequiredFields: []string{
				entities.MetricTemperature,
				entities.MetricWindSpeed,
				entities.MetricPrecipitation,
			},
			RequiredThresholds: []string{
				"wind_chill_factor", "rain_flag_threshold",
				"clothing_insulated_below", "clothing_windproof_below", "clothing_light_layer_below",
				"clothing_exposure_scale", "clothing_rain_penalty",
			},
			Bands:    clothingLayers,
			Polarity: entities.PolarityRisk,
		},
		Formula: clothing,
	}
}

// clothing recommends a layer from the ordered rule list over the
// wind-chill-adjusted temperature and a precipitation flag. Value is the
// continuous exposure score (higher means harsher conditions) for
// fine-grained comparison between samples in the same layer.
func clothing(sample entities.WeatherSample, resolved *entities.ResolvedProfile) (entities.IndexOutput, float64, bool) {
	temp, tempOK := sample.Field(entities.MetricTemperature)
	wind, windOK := sample.Field(entities.MetricWindSpeed)
	precip, precipOK := sample.Field(entities.MetricPrecipitation)
	if !tempOK || !windOK || !precipOK {
		return entities.IndexOutput{}, 0, false
	}

	adjusted := temp - resolved.Param("wind_chill_factor")*wind
	raining := precip >= resolved.Param("rain_flag_threshold")

	category, rank := "none", 0
	for _, rule := range clothingRules {
		if rule.guard(adjusted, raining, resolved) {
			category, rank = rule.category, rule.rank
			break
		}
	}

	exposure := (resolved.Param("clothing_light_layer_below") - adjusted) * resolved.Param("clothing_exposure_scale")
	if raining {
		exposure += resolved.Param("clothing_rain_penalty")
	}

	return entities.IndexOutput{
		Value: clampScore(exposure),
		Band:  category,
		Detail: map[string]float64{
			"adjusted_temperature": adjusted,
			"layer_rank":           float64(rank),
		},
	}, 1, true
}
