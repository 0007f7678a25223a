package testutils

import (
	"context"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/stretchr/testify/mock"
)

type MockSampleFetcher struct {
	mock.Mock
}

func (m *MockSampleFetcher) FetchSamples(ctx context.Context, locationID string, from, to time.Time) ([]entities.WeatherSample, error) {
	args := m.Called(ctx, locationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.WeatherSample), args.Error(1)
}

func (m *MockSampleFetcher) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSeriesStore struct {
	mock.Mock
}

func (m *MockSeriesStore) Put(ctx context.Context, series entities.NormalizedSeries) error {
	args := m.Called(ctx, series)
	return args.Error(0)
}

func (m *MockSeriesStore) Get(ctx context.Context, locationID string) (entities.NormalizedSeries, error) {
	args := m.Called(ctx, locationID)
	return args.Get(0).(entities.NormalizedSeries), args.Error(1)
}

func (m *MockSeriesStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Put(ctx context.Context, profile entities.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileStore) Get(ctx context.Context, userID string) (entities.UserProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entities.UserProfile), args.Error(1)
}

func (m *MockProfileStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSampleProducer struct {
	mock.Mock
}

func (m *MockSampleProducer) Produce(ctx context.Context, batch ports.SampleBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockSampleProducer) ProduceAll(ctx context.Context, batches []ports.SampleBatch) error {
	args := m.Called(ctx, batches)
	return args.Error(0)
}

func (m *MockSampleProducer) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSampleProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockSampleConsumer struct {
	mock.Mock
}

func (m *MockSampleConsumer) Consume(ctx context.Context, handler func(ctx context.Context, batch ports.SampleBatch) error) error {
	args := m.Called(ctx, handler)
	return args.Error(0)
}

func (m *MockSampleConsumer) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSampleConsumer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) Schedule(ctx context.Context, interval time.Duration, task ports.Task) error {
	args := m.Called(ctx, interval, task)
	return args.Error(0)
}

func (m *MockScheduler) Stop() {
	m.Called()
}
