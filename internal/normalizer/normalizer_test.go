package normalizer

import (
	"testing"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 2, 10, 6, 0, 0, 0, time.UTC)

func hourly(offset int, temp float64) entities.WeatherSample {
	return entities.WeatherSample{
		Timestamp:   baseTime.Add(time.Duration(offset) * time.Hour),
		Temperature: entities.Float(temp),
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	t.Run("orders unsorted samples onto the grid", func(t *testing.T) {
		n := New(time.Hour, 3)

		series, err := n.Normalize("71913", []entities.WeatherSample{
			hourly(2, 14),
			hourly(0, 12),
			hourly(1, 13),
		})

		require.NoError(t, err)
		require.Len(t, series.Samples, 3)
		assert.Equal(t, baseTime, series.Samples[0].Timestamp)
		assert.Equal(t, 12.0, *series.Samples[0].Temperature)
		assert.Equal(t, 13.0, *series.Samples[1].Temperature)
		assert.Equal(t, 14.0, *series.Samples[2].Temperature)
	})

	t.Run("duplicate timestamps resolve last write wins", func(t *testing.T) {
		n := New(time.Hour, 3)

		series, err := n.Normalize("71913", []entities.WeatherSample{
			hourly(0, 10),
			hourly(0, 11),
		})

		require.NoError(t, err)
		require.Len(t, series.Samples, 1)
		assert.Equal(t, 11.0, *series.Samples[0].Temperature)
	})

	t.Run("interpolates gaps within the maximum", func(t *testing.T) {
		n := New(time.Hour, 3)

		series, err := n.Normalize("71913", []entities.WeatherSample{
			hourly(0, 10),
			hourly(4, 18),
		})

		require.NoError(t, err)
		require.Len(t, series.Samples, 5)
		assert.Equal(t, 12.0, *series.Samples[1].Temperature)
		assert.Equal(t, 14.0, *series.Samples[2].Temperature)
		assert.Equal(t, 16.0, *series.Samples[3].Temperature)
	})

	t.Run("leaves gaps beyond the maximum explicitly missing", func(t *testing.T) {
		n := New(time.Hour, 3)

		series, err := n.Normalize("71913", []entities.WeatherSample{
			hourly(0, 10),
			hourly(5, 20),
		})

		require.NoError(t, err)
		require.Len(t, series.Samples, 6)
		for i := 1; i <= 4; i++ {
			assert.Nil(t, series.Samples[i].Temperature, "slot %d should stay missing", i)
		}
	})

	t.Run("interpolates each field independently", func(t *testing.T) {
		n := New(time.Hour, 3)

		first := hourly(0, 10)
		first.WindSpeed = entities.Float(10)
		middle := hourly(1, 11)
		last := hourly(2, 12)
		last.WindSpeed = entities.Float(20)

		series, err := n.Normalize("71913", []entities.WeatherSample{first, middle, last})

		require.NoError(t, err)
		require.Len(t, series.Samples, 3)
		assert.Equal(t, 11.0, *series.Samples[1].Temperature)
		assert.Equal(t, 15.0, *series.Samples[1].WindSpeed)
	})

	t.Run("rejects negative wind speed", func(t *testing.T) {
		n := New(time.Hour, 3)

		bad := hourly(0, 10)
		bad.WindSpeed = entities.Float(-2)

		_, err := n.Normalize("71913", []entities.WeatherSample{bad})

		require.Error(t, err)
		var vErr entities.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, entities.MetricWindSpeed, vErr.Field)
		assert.Equal(t, bad.Timestamp, vErr.Timestamp)
	})

	t.Run("rejects cloud cover outside 0-100", func(t *testing.T) {
		n := New(time.Hour, 3)

		bad := hourly(0, 10)
		bad.CloudCover = entities.Float(140)

		_, err := n.Normalize("71913", []entities.WeatherSample{bad})

		var vErr entities.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, entities.MetricCloudCover, vErr.Field)
	})

	t.Run("empty input yields empty series", func(t *testing.T) {
		n := New(time.Hour, 3)

		series, err := n.Normalize("71913", nil)

		require.NoError(t, err)
		assert.True(t, series.IsEmpty())
		assert.Equal(t, "71913", series.LocationID)
	})
}

func TestNormalizer_Idempotence(t *testing.T) {
	n := New(time.Hour, 3)

	raw := []entities.WeatherSample{
		hourly(0, 10),
		hourly(3, 16),
		hourly(9, 8), // gap too large, stays missing
	}
	raw[0].WindSpeed = entities.Float(5)
	raw[1].Precipitation = entities.Float(0.4)

	first, err := n.Normalize("71913", raw)
	require.NoError(t, err)

	second, err := n.Normalize("71913", first.Samples)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
