package recommend

import (
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

func newTestMapper(t *testing.T) (*Mapper, *entities.ResolvedProfile) {
	t.Helper()
	log := logger.New("error", "development")
	cat := catalog.New(config.DefaultIndices())
	resolved, err := profile.NewResolver(cat, log).Resolve(entities.UserProfile{UserID: "tester"})
	require.NoError(t, err)
	return NewMapper(cat, log), resolved
}

func scored(indexID string, value float64, band string, hour int) entities.ScoreResult {
	return entities.ScoreResult{
		Timestamp:  time.Date(2026, 2, 10, hour, 0, 0, 0, time.UTC),
		IndexID:    indexID,
		Value:      &value,
		Band:       band,
		Confidence: 1,
	}
}

func degraded(indexID string, hour int) entities.ScoreResult {
	return entities.ScoreResult{
		Timestamp: time.Date(2026, 2, 10, hour, 0, 0, 0, time.UTC),
		IndexID:   indexID,
		Warning:   entities.WarnComputationDegraded,
	}
}

func TestMapper_Map(t *testing.T) {
	mapper, resolved := newTestMapper(t)

	t.Run("quality index aggregates by mean", func(t *testing.T) {
		// mean 70 is "good" even though one hour was "excellent" and one "fair"
		results := []entities.ScoreResult{
			scored(entities.IndexDayQuality, 90, "excellent", 9),
			scored(entities.IndexDayQuality, 70, "good", 10),
			scored(entities.IndexDayQuality, 50, "fair", 11),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 1)
		assert.Equal(t, entities.IndexDayQuality, recs[0].IndexID)
		assert.Equal(t, "good", recs[0].Category)
		assert.Equal(t, 2, recs[0].Rank)
	})

	t.Run("risk index aggregates by worst case", func(t *testing.T) {
		results := []entities.ScoreResult{
			scored(entities.IndexColdShock, 10, "low", 9),
			scored(entities.IndexColdShock, 85, "severe", 10),
			scored(entities.IndexColdShock, 20, "low", 11),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 1)
		assert.Equal(t, "severe", recs[0].Category)
		assert.Equal(t, 3, recs[0].Rank)
	})

	t.Run("clothing takes the heaviest layer of the window", func(t *testing.T) {
		results := []entities.ScoreResult{
			scored(entities.IndexClothing, 5, "none", 9),
			scored(entities.IndexClothing, 60, "waterproof", 10),
			scored(entities.IndexClothing, 30, "light-layer", 11),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 1)
		assert.Equal(t, "waterproof", recs[0].Category)
		assert.Equal(t, 3, recs[0].Rank)
	})

	t.Run("degraded results are left out of the aggregate", func(t *testing.T) {
		results := []entities.ScoreResult{
			degraded(entities.IndexColdShock, 9),
			scored(entities.IndexColdShock, 20, "low", 10),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 1)
		assert.Equal(t, "low", recs[0].Category)
	})

	t.Run("fully degraded index yields no recommendation", func(t *testing.T) {
		results := []entities.ScoreResult{
			degraded(entities.IndexVisibility, 9),
			degraded(entities.IndexVisibility, 10),
			scored(entities.IndexDayQuality, 90, "excellent", 9),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 1)
		assert.Equal(t, entities.IndexDayQuality, recs[0].IndexID)
	})

	t.Run("aggregate value exactly on a boundary takes the higher band", func(t *testing.T) {
		// defaults put the good band minimum at 65
		results := []entities.ScoreResult{
			scored(entities.IndexDayQuality, 60, "fair", 9),
			scored(entities.IndexDayQuality, 70, "good", 10),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 1)
		assert.Equal(t, "good", recs[0].Category)
	})

	t.Run("indices keep first-seen order", func(t *testing.T) {
		results := []entities.ScoreResult{
			scored(entities.IndexClothing, 5, "none", 9),
			scored(entities.IndexDayQuality, 90, "excellent", 9),
			scored(entities.IndexClothing, 10, "none", 10),
		}

		recs := mapper.Map(results, resolved)

		require.Len(t, recs, 2)
		assert.Equal(t, entities.IndexClothing, recs[0].IndexID)
		assert.Equal(t, entities.IndexDayQuality, recs[1].IndexID)
	})

	t.Run("empty input yields no recommendations", func(t *testing.T) {
		assert.Empty(t, mapper.Map(nil, resolved))
	})
}
