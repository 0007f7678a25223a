package engine

import (
	"context"
	"testing"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/catalog"
	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/eliz29ese/hackUDC26/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, workers int) (*Engine, *entities.ResolvedProfile) {
	t.Helper()
	log := logger.New("error", "development")
	cat := catalog.New(config.DefaultIndices())
	resolved, err := profile.NewResolver(cat, log).Resolve(entities.UserProfile{UserID: "tester"})
	require.NoError(t, err)
	return New(cat, workers, log), resolved
}

func testSeries(n int) entities.NormalizedSeries {
	start := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	samples := make([]entities.WeatherSample, n)
	for i := range samples {
		samples[i] = entities.WeatherSample{
			Timestamp:     start.Add(time.Duration(i) * time.Hour),
			Temperature:   entities.Float(10 + float64(i)),
			WindSpeed:     entities.Float(float64(i * 2)),
			Precipitation: entities.Float(0),
			Visibility:    entities.Float(15000),
		}
	}
	return entities.NormalizedSeries{LocationID: "loc-1", Interval: time.Hour, Samples: samples}
}

func TestEngine_Score(t *testing.T) {
	engine, resolved := newTestEngine(t, 4)
	indexIDs := []string{entities.IndexDayQuality, entities.IndexClothing}

	t.Run("results keep timestamp then index order", func(t *testing.T) {
		series := testSeries(6)

		results, err := engine.Score(context.Background(), series, indexIDs, resolved)

		require.NoError(t, err)
		require.Len(t, results, 12)
		for i, r := range results {
			assert.Equal(t, series.Samples[i/2].Timestamp, r.Timestamp)
			assert.Equal(t, indexIDs[i%2], r.IndexID)
		}
	})

	t.Run("scored values are bounded and confident", func(t *testing.T) {
		results, err := engine.Score(context.Background(), testSeries(3), indexIDs, resolved)

		require.NoError(t, err)
		for _, r := range results {
			require.NotNil(t, r.Value)
			assert.GreaterOrEqual(t, *r.Value, 0.0)
			assert.LessOrEqual(t, *r.Value, 100.0)
			assert.Greater(t, r.Confidence, 0.0)
			assert.False(t, r.Degraded())
		}
	})

	t.Run("missing required input degrades the pair only", func(t *testing.T) {
		series := testSeries(2)
		series.Samples[1].Precipitation = nil // clothing needs it, day quality does not

		results, err := engine.Score(context.Background(), series, indexIDs, resolved)

		require.NoError(t, err)
		require.Len(t, results, 4)

		degraded := results[3]
		assert.Equal(t, entities.IndexClothing, degraded.IndexID)
		assert.Nil(t, degraded.Value)
		assert.Equal(t, 0.0, degraded.Confidence)
		assert.Equal(t, entities.WarnComputationDegraded, degraded.Warning)

		stillScored := results[2]
		assert.Equal(t, entities.IndexDayQuality, stillScored.IndexID)
		assert.NotNil(t, stillScored.Value)
	})

	t.Run("unknown index is rejected before any scoring", func(t *testing.T) {
		_, err := engine.Score(context.Background(), testSeries(2), []string{"aurora"}, resolved)

		var cfgErr entities.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("empty series yields empty results", func(t *testing.T) {
		results, err := engine.Score(context.Background(), entities.NormalizedSeries{}, indexIDs, resolved)

		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("cancelled context discards the whole batch", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := engine.Score(ctx, testSeries(50), indexIDs, resolved)

		require.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, results)
	})

	t.Run("single worker matches the pool result", func(t *testing.T) {
		serial, _ := newTestEngine(t, 1)
		series := testSeries(8)

		pooled, err := engine.Score(context.Background(), series, indexIDs, resolved)
		require.NoError(t, err)
		sequential, err := serial.Score(context.Background(), series, indexIDs, resolved)
		require.NoError(t, err)

		assert.Equal(t, sequential, pooled)
	})
}
