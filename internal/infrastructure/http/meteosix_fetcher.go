package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/config"
	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/domain/ports"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// forecastVariables are the MeteoSIX variable names requested on every call.
var forecastVariables = []string{
	"temperature",
	"wind",
	"precipitation_amount",
	"relative_humidity",
	"cloud_area_fraction",
	"visibility",
	"significative_wave_height",
	"sea_water_temperature",
}

// MeteoSIXFetcher retrieves hourly numeric forecasts from the MeteoGalicia
// MeteoSIX API (getNumericForecastInfo). Responses are GeoJSON: one feature
// per location, with per-day variable blocks of timestamped values. A failed
// location comes back as a feature-level exception, not an HTTP error.
type MeteoSIXFetcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
	lang    string
	logger  logger.Logger
}

func NewMeteoSIXFetcher(cfg config.MeteoSIXConfig) ports.SampleFetcher {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &MeteoSIXFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		lang:    cfg.Lang,
		logger:  logger.New("info", "development").WithField("component", "meteosix_fetcher"),
	}
}

type forecastResponse struct {
	Features  []forecastFeature `json:"features"`
	Exception json.RawMessage   `json:"exception"`
}

type forecastFeature struct {
	Exception  json.RawMessage `json:"exception"`
	Properties struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Days []struct {
			Variables []struct {
				Name   string          `json:"name"`
				Units  string          `json:"units"`
				Values []forecastValue `json:"values"`
			} `json:"variables"`
		} `json:"days"`
	} `json:"properties"`
}

type forecastValue struct {
	TimeInstant    string      `json:"timeInstant"`
	Value          interface{} `json:"value"`
	ModuleValue    interface{} `json:"moduleValue"`
	DirectionValue interface{} `json:"directionValue"`
}

func (f *MeteoSIXFetcher) FetchSamples(ctx context.Context, locationID string, from, to time.Time) ([]entities.WeatherSample, error) {
	f.logger.Debugf("Fetching forecast for location %s between %s and %s",
		locationID, from.Format(time.RFC3339), to.Format(time.RFC3339))

	query := url.Values{}
	query.Set("API_KEY", f.apiKey)
	query.Set("locationIds", locationID)
	query.Set("variables", strings.Join(forecastVariables, ","))
	query.Set("lang", f.lang)
	query.Set("format", "application/json")
	query.Set("exceptionsFormat", "application/json")
	endpoint := f.baseURL + "/getNumericForecastInfo?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, entities.TransientNetworkError{Endpoint: "getNumericForecastInfo", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, entities.TransientNetworkError{
			Endpoint: "getNumericForecastInfo",
			Err:      fmt.Errorf("API returned status %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Exception) > 0 {
		return nil, fmt.Errorf("API exception: %s", string(apiResp.Exception))
	}

	for _, feature := range apiResp.Features {
		if feature.Properties.ID != locationID && len(apiResp.Features) > 1 {
			continue
		}
		if len(feature.Exception) > 0 {
			return nil, fmt.Errorf("location %s rejected: %s", locationID, string(feature.Exception))
		}
		samples := f.collectSamples(feature, from, to)
		f.logger.Debugf("Fetched %d samples for location %s", len(samples), locationID)
		return samples, nil
	}

	return nil, fmt.Errorf("location %s not present in response", locationID)
}

// collectSamples regroups the per-variable value lists into one sample per
// time instant, keeping only instants inside [from, to).
func (f *MeteoSIXFetcher) collectSamples(feature forecastFeature, from, to time.Time) []entities.WeatherSample {
	byInstant := make(map[time.Time]*entities.WeatherSample)

	for _, day := range feature.Properties.Days {
		for _, variable := range day.Variables {
			for _, hv := range variable.Values {
				ts, err := parseTimeInstant(hv.TimeInstant)
				if err != nil {
					f.logger.Warnf("Skipping value with bad timeInstant %q: %v", hv.TimeInstant, err)
					continue
				}
				ts = ts.UTC()
				if ts.Before(from) || !ts.Before(to) {
					continue
				}
				sample, ok := byInstant[ts]
				if !ok {
					sample = &entities.WeatherSample{Timestamp: ts}
					byInstant[ts] = sample
				}
				applyVariable(sample, variable.Name, hv)
			}
		}
	}

	samples := make([]entities.WeatherSample, 0, len(byInstant))
	for _, sample := range byInstant {
		samples = append(samples, *sample)
	}
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
	return samples
}

func applyVariable(sample *entities.WeatherSample, name string, hv forecastValue) {
	if name == "wind" {
		// wind carries module and direction instead of a single value
		if module, ok := toFloat(hv.ModuleValue); ok {
			sample.WindSpeed = entities.Float(module)
		}
		if direction, ok := toFloat(hv.DirectionValue); ok {
			sample.WindDirection = entities.Float(direction)
		}
		return
	}

	value, ok := toFloat(hv.Value)
	if !ok {
		return
	}
	switch name {
	case "temperature":
		sample.Temperature = entities.Float(value)
	case "precipitation_amount":
		sample.Precipitation = entities.Float(value)
	case "relative_humidity":
		sample.Humidity = entities.Float(value)
	case "cloud_area_fraction":
		sample.CloudCover = entities.Float(value)
	case "visibility":
		sample.Visibility = entities.Float(value)
	case "significative_wave_height":
		sample.WaveHeight = entities.Float(value)
	case "sea_water_temperature":
		sample.WaterTemperature = entities.Float(value)
	}
}

// toFloat accepts the numeric and quoted-numeric encodings the API mixes.
func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		if v == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

var timeInstantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-07",
	"2006-01-02T15:04:05",
}

func parseTimeInstant(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeInstantLayouts {
		ts, err := time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func (f *MeteoSIXFetcher) HealthCheck(ctx context.Context) error {
	query := url.Values{}
	query.Set("API_KEY", f.apiKey)
	query.Set("location", "vigo")
	query.Set("types", "locality")
	query.Set("format", "application/json")
	endpoint := f.baseURL + "/findPlaces?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute health check: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API health check failed with status: %d", resp.StatusCode)
	}
	return nil
}
