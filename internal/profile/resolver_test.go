package profile

import (
	"testing"

	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	cat := catalog.New(config.DefaultIndices())
	return NewResolver(cat, logger.New("error", "development"))
}

func TestResolver_Resolve(t *testing.T) {
	resolver := newTestResolver(t)

	t.Run("empty profile resolves with defaults", func(t *testing.T) {
		resolved, err := resolver.Resolve(entities.UserProfile{UserID: "u-1"})

		require.NoError(t, err)
		assert.Equal(t, "u-1", resolved.UserID())

		sum := 0.0
		for _, metric := range []string{
			entities.MetricTemperature,
			entities.MetricWindSpeed,
			entities.MetricPrecipitation,
			entities.MetricVisibility,
		} {
			w := resolved.Weight(entities.IndexDayQuality, metric)
			assert.Greater(t, w, 0.0, metric)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.True(t, resolved.HasParam("cold_shock_ref_temp"))
	})

	t.Run("user weights are rescaled to sum one", func(t *testing.T) {
		resolved, err := resolver.Resolve(entities.UserProfile{
			UserID: "u-2",
			Weights: map[string]float64{
				entities.MetricTemperature:   5,
				entities.MetricWindSpeed:     3,
				entities.MetricPrecipitation: 2,
				entities.MetricVisibility:    0,
			},
		})

		require.NoError(t, err)
		assert.InDelta(t, 0.5, resolved.Weight(entities.IndexDayQuality, entities.MetricTemperature), 1e-9)
		assert.InDelta(t, 0.3, resolved.Weight(entities.IndexDayQuality, entities.MetricWindSpeed), 1e-9)
		assert.InDelta(t, 0.2, resolved.Weight(entities.IndexDayQuality, entities.MetricPrecipitation), 1e-9)
		assert.Equal(t, 0.0, resolved.Weight(entities.IndexDayQuality, entities.MetricVisibility))
	})

	t.Run("threshold override replaces the default", func(t *testing.T) {
		resolved, err := resolver.Resolve(entities.UserProfile{
			UserID:     "u-3",
			Thresholds: map[string]float64{"cold_shock_ref_temp": 18},
		})

		require.NoError(t, err)
		assert.Equal(t, 18.0, resolved.Param("cold_shock_ref_temp"))
	})

	t.Run("negative weight is rejected", func(t *testing.T) {
		_, err := resolver.Resolve(entities.UserProfile{
			UserID:  "u-4",
			Weights: map[string]float64{entities.MetricTemperature: -0.1},
		})

		var cfgErr entities.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "weights.temperature", cfgErr.Key)
	})

	t.Run("unknown weight key is rejected", func(t *testing.T) {
		_, err := resolver.Resolve(entities.UserProfile{
			UserID:  "u-5",
			Weights: map[string]float64{"moon_phase": 1},
		})

		var cfgErr entities.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "weights.moon_phase", cfgErr.Key)
	})

	t.Run("unknown threshold name is rejected", func(t *testing.T) {
		_, err := resolver.Resolve(entities.UserProfile{
			UserID:     "u-6",
			Thresholds: map[string]float64{"frostbite_onset": 3},
		})

		var cfgErr entities.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "thresholds.frostbite_onset", cfgErr.Key)
	})

	t.Run("all-zero weights are rejected", func(t *testing.T) {
		_, err := resolver.Resolve(entities.UserProfile{
			UserID: "u-7",
			Weights: map[string]float64{
				entities.MetricTemperature:   0,
				entities.MetricWindSpeed:     0,
				entities.MetricPrecipitation: 0,
				entities.MetricVisibility:    0,
			},
		})

		var cfgErr entities.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "weights", cfgErr.Key)
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		profile := entities.UserProfile{
			UserID:     "u-8",
			Weights:    map[string]float64{entities.MetricTemperature: 2},
			Thresholds: map[string]float64{"wind_chill_factor": 0.2},
		}

		first, err := resolver.Resolve(profile)
		require.NoError(t, err)
		second, err := resolver.Resolve(profile)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
