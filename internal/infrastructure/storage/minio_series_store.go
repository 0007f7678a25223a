package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// MinioSeriesStore keeps one JSON object per location. Series are immutable
// blobs replaced whole on every ingest, so plain object storage is enough;
// readers always see either the previous or the new series, never a mix.
type MinioSeriesStore struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

func NewMinioSeriesStore(cfg config.MinioConfig, log logger.Logger) (*MinioSeriesStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Minio client: %w", err)
	}

	store := &MinioSeriesStore{
		client: client,
		bucket: cfg.Bucket,
		logger: log.WithField("component", "minio_series_store"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

func (m *MinioSeriesStore) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		m.logger.Infof("Created bucket: %s", m.bucket)
	}
	return nil
}

func (m *MinioSeriesStore) Put(ctx context.Context, series entities.NormalizedSeries) error {
	if series.LocationID == "" {
		return fmt.Errorf("series has no location id")
	}

	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to marshal series: %w", err)
	}

	_, err = m.client.PutObject(ctx, m.bucket, m.objectKey(series.LocationID),
		bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType: "application/json",
		})
	if err != nil {
		return fmt.Errorf("failed to upload series %s: %w", series.LocationID, err)
	}

	m.logger.Debugf("Stored series %s (%d samples)", series.LocationID, len(series.Samples))
	return nil
}

func (m *MinioSeriesStore) Get(ctx context.Context, locationID string) (entities.NormalizedSeries, error) {
	object, err := m.client.GetObject(ctx, m.bucket, m.objectKey(locationID), minio.GetObjectOptions{})
	if err != nil {
		return entities.NormalizedSeries{}, fmt.Errorf("failed to get series %s: %w", locationID, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return entities.NormalizedSeries{}, ports.ErrNotFound{Key: locationID}
		}
		return entities.NormalizedSeries{}, fmt.Errorf("failed to read series %s: %w", locationID, err)
	}

	var series entities.NormalizedSeries
	if err := json.Unmarshal(data, &series); err != nil {
		return entities.NormalizedSeries{}, fmt.Errorf("failed to unmarshal series %s: %w", locationID, err)
	}
	return series, nil
}

func (m *MinioSeriesStore) HealthCheck(ctx context.Context) error {
	_, err := m.client.ListBuckets(ctx)
	return err
}

func (m *MinioSeriesStore) objectKey(locationID string) string {
	return fmt.Sprintf("series/%s.json", locationID)
}
