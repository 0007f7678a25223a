package application

import (
	"context"
	"testing"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
	"github.com/eliz29ese/hackUDC26/internal/normalizer"
	"github.com/eliz29ese/hackUDC26/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newIngestor(store *testutils.MockSeriesStore) *SampleIngestor {
	return NewSampleIngestor(normalizer.New(time.Hour, 3), store, logger.New("error", "development"))
}

func rawSample(hour int, temp float64) entities.WeatherSample {
	return entities.WeatherSample{
		Timestamp:   time.Date(2026, 2, 10, hour, 0, 0, 0, time.UTC),
		Temperature: entities.Float(temp),
	}
}

func TestSampleIngestor_Ingest(t *testing.T) {
	t.Run("first batch for a location creates the series", func(t *testing.T) {
		store := new(testutils.MockSeriesStore)
		store.On("Get", mock.Anything, "loc-1").Return(entities.NormalizedSeries{}, ports.ErrNotFound{Key: "loc-1"})
		store.On("Put", mock.Anything, mock.MatchedBy(func(series entities.NormalizedSeries) bool {
			return series.LocationID == "loc-1" && len(series.Samples) == 3
		})).Return(nil)

		err := newIngestor(store).Ingest(context.Background(), ports.SampleBatch{
			LocationID: "loc-1",
			Samples:    []entities.WeatherSample{rawSample(0, 10), rawSample(1, 11), rawSample(2, 12)},
		})

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("new batch overrides overlapping slots of the stored series", func(t *testing.T) {
		existing := entities.NormalizedSeries{
			LocationID: "loc-1",
			Interval:   time.Hour,
			Samples:    []entities.WeatherSample{rawSample(0, 10), rawSample(1, 11)},
		}
		store := new(testutils.MockSeriesStore)
		store.On("Get", mock.Anything, "loc-1").Return(existing, nil)

		var stored entities.NormalizedSeries
		store.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			stored = args.Get(1).(entities.NormalizedSeries)
		}).Return(nil)

		err := newIngestor(store).Ingest(context.Background(), ports.SampleBatch{
			LocationID: "loc-1",
			Samples:    []entities.WeatherSample{rawSample(1, 99), rawSample(2, 12)},
		})

		require.NoError(t, err)
		require.Len(t, stored.Samples, 3)
		require.NotNil(t, stored.Samples[1].Temperature)
		assert.Equal(t, 99.0, *stored.Samples[1].Temperature)
	})

	t.Run("invalid sample rejects the batch without storing", func(t *testing.T) {
		store := new(testutils.MockSeriesStore)
		store.On("Get", mock.Anything, "loc-1").Return(entities.NormalizedSeries{}, ports.ErrNotFound{Key: "loc-1"})

		bad := rawSample(0, 10)
		bad.Humidity = entities.Float(140)

		err := newIngestor(store).Ingest(context.Background(), ports.SampleBatch{
			LocationID: "loc-1",
			Samples:    []entities.WeatherSample{bad},
		})

		var valErr entities.ValidationError
		require.ErrorAs(t, err, &valErr)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		store := new(testutils.MockSeriesStore)

		err := newIngestor(store).Ingest(context.Background(), ports.SampleBatch{LocationID: "loc-1"})

		require.NoError(t, err)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("missing location id is rejected", func(t *testing.T) {
		err := newIngestor(new(testutils.MockSeriesStore)).Ingest(context.Background(), ports.SampleBatch{
			Samples: []entities.WeatherSample{rawSample(0, 10)},
		})

		var valErr entities.ValidationError
		require.ErrorAs(t, err, &valErr)
	})

	t.Run("replaying the same batch converges on the same series", func(t *testing.T) {
		store := new(testutils.MockSeriesStore)
		batch := ports.SampleBatch{
			LocationID: "loc-1",
			Samples:    []entities.WeatherSample{rawSample(0, 10), rawSample(1, 11)},
		}

		var first, second entities.NormalizedSeries
		store.On("Get", mock.Anything, "loc-1").Return(entities.NormalizedSeries{}, ports.ErrNotFound{Key: "loc-1"}).Once()
		store.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			first = args.Get(1).(entities.NormalizedSeries)
		}).Return(nil).Once()

		ingestor := newIngestor(store)
		require.NoError(t, ingestor.Ingest(context.Background(), batch))

		store.On("Get", mock.Anything, "loc-1").Return(first, nil).Once()
		store.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			second = args.Get(1).(entities.NormalizedSeries)
		}).Return(nil).Once()

		require.NoError(t, ingestor.Ingest(context.Background(), batch))
		assert.Equal(t, first, second)
	})
}

func TestPollService(t *testing.T) {
	t.Run("publishes one batch per healthy location", func(t *testing.T) {
		fetcher := new(testutils.MockSampleFetcher)
		producer := new(testutils.MockSampleProducer)
		scheduler := new(testutils.MockScheduler)

		fetcher.On("FetchSamples", mock.Anything, "loc-1", mock.Anything, mock.Anything).
			Return([]entities.WeatherSample{rawSample(0, 10)}, nil)
		fetcher.On("FetchSamples", mock.Anything, "loc-2", mock.Anything, mock.Anything).
			Return(nil, entities.TransientNetworkError{Endpoint: "api", Err: context.DeadlineExceeded})
		producer.On("ProduceAll", mock.Anything, mock.MatchedBy(func(batches []ports.SampleBatch) bool {
			return len(batches) == 1 && batches[0].LocationID == "loc-1"
		})).Return(nil)

		service := NewPollService(fetcher, producer, scheduler,
			[]string{"loc-1", "loc-2"}, 48*time.Hour, logger.New("error", "development"))

		err := service.pollAndPublish(context.Background())

		require.NoError(t, err)
		producer.AssertExpectations(t)
	})

	t.Run("all locations failing is an error", func(t *testing.T) {
		fetcher := new(testutils.MockSampleFetcher)
		producer := new(testutils.MockSampleProducer)

		fetcher.On("FetchSamples", mock.Anything, "loc-1", mock.Anything, mock.Anything).
			Return(nil, entities.TransientNetworkError{Endpoint: "api", Err: context.DeadlineExceeded})

		service := NewPollService(fetcher, producer, new(testutils.MockScheduler),
			[]string{"loc-1"}, 48*time.Hour, logger.New("error", "development"))

		err := service.pollAndPublish(context.Background())

		require.Error(t, err)
		producer.AssertNotCalled(t, "ProduceAll", mock.Anything, mock.Anything)
	})
}
