package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastBody = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {
        "id": "71857",
        "name": "Vigo",
        "days": [
          {
            "variables": [
              {
                "name": "temperature",
                "units": "degc",
                "values": [
                  {"timeInstant": "2026-02-10T00:00:00+01", "value": 11.4},
                  {"timeInstant": "2026-02-10T01:00:00+01", "value": "10.9"}
                ]
              },
              {
                "name": "wind",
                "units": "kmh",
                "values": [
                  {"timeInstant": "2026-02-10T00:00:00+01", "moduleValue": 14.0, "directionValue": 270.0},
                  {"timeInstant": "2026-02-10T01:00:00+01", "moduleValue": 16.5, "directionValue": 275.0}
                ]
              },
              {
                "name": "sea_water_temperature",
                "units": "degc",
                "values": [
                  {"timeInstant": "2026-02-10T00:00:00+01", "value": 13.2}
                ]
              },
              {
                "name": "precipitation_amount",
                "units": "lm2",
                "values": [
                  {"timeInstant": "2026-02-10T00:00:00+01", "value": ""}
                ]
              }
            ]
          }
        ]
      }
    }
  ]
}`

func newTestFetcher(baseURL string) *MeteoSIXFetcher {
	return NewMeteoSIXFetcher(config.MeteoSIXConfig{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Lang:    "gl",
		Timeout: 5 * time.Second,
	}).(*MeteoSIXFetcher)
}

func TestMeteoSIXFetcher_FetchSamples(t *testing.T) {
	from := time.Date(2026, 2, 9, 20, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)

	t.Run("regroups variables into one sample per instant", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.String(), "locationIds=71857")
			assert.Contains(t, r.URL.String(), "API_KEY=test-key")
			assert.Contains(t, r.URL.Query().Get("variables"), "sea_water_temperature")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(forecastBody))
		}))
		defer server.Close()

		samples, err := newTestFetcher(server.URL).FetchSamples(context.Background(), "71857", from, to)

		require.NoError(t, err)
		require.Len(t, samples, 2)

		// +01 offset instants land on 23:00 and 00:00 UTC
		first := samples[0]
		assert.Equal(t, time.Date(2026, 2, 9, 23, 0, 0, 0, time.UTC), first.Timestamp)
		require.NotNil(t, first.Temperature)
		assert.Equal(t, 11.4, *first.Temperature)
		require.NotNil(t, first.WindSpeed)
		assert.Equal(t, 14.0, *first.WindSpeed)
		require.NotNil(t, first.WindDirection)
		assert.Equal(t, 270.0, *first.WindDirection)
		require.NotNil(t, first.WaterTemperature)
		assert.Equal(t, 13.2, *first.WaterTemperature)
		assert.Nil(t, first.Precipitation, "empty string value stays missing")

		second := samples[1]
		require.NotNil(t, second.Temperature)
		assert.Equal(t, 10.9, *second.Temperature, "quoted numeric value is parsed")
		assert.Nil(t, second.WaterTemperature)
	})

	t.Run("window bounds filter instants", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(forecastBody))
		}))
		defer server.Close()

		narrowFrom := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
		samples, err := newTestFetcher(server.URL).FetchSamples(context.Background(), "71857", narrowFrom, narrowFrom.Add(time.Hour))

		require.NoError(t, err)
		require.Len(t, samples, 1)
		assert.Equal(t, narrowFrom, samples[0].Timestamp)
	})

	t.Run("feature-level exception fails the location", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"features":[{"exception":{"code":"LocationNotFound"},"properties":{"id":"999"}}]}`))
		}))
		defer server.Close()

		_, err := newTestFetcher(server.URL).FetchSamples(context.Background(), "999", from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "rejected")
	})

	t.Run("top-level exception fails the call", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"exception":{"code":"InvalidApiKey"}}`))
		}))
		defer server.Close()

		_, err := newTestFetcher(server.URL).FetchSamples(context.Background(), "71857", from, to)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API exception")
	})

	t.Run("server error is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestFetcher(server.URL).FetchSamples(context.Background(), "71857", from, to)

		var transient entities.TransientNetworkError
		require.ErrorAs(t, err, &transient)
	})

	t.Run("client error is not transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		_, err := newTestFetcher(server.URL).FetchSamples(context.Background(), "71857", from, to)

		require.Error(t, err)
		var transient entities.TransientNetworkError
		assert.False(t, errors.As(err, &transient))
		assert.Contains(t, err.Error(), "status 401")
	})

	t.Run("unreachable server is transient", func(t *testing.T) {
		_, err := newTestFetcher("http://127.0.0.1:1").FetchSamples(context.Background(), "71857", from, to)

		var transient entities.TransientNetworkError
		require.ErrorAs(t, err, &transient)
	})
}

func TestMeteoSIXFetcher_HealthCheck(t *testing.T) {
	t.Run("healthy endpoint passes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "findPlaces")
			w.Write([]byte(`{"features":[]}`))
		}))
		defer server.Close()

		assert.NoError(t, newTestFetcher(server.URL).HealthCheck(context.Background()))
	})

	t.Run("failing endpoint reports unhealthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		assert.Error(t, newTestFetcher(server.URL).HealthCheck(context.Background()))
	})
}
