package entities

import (
	"time"
)

// Metric names shared by samples, user profiles and index definitions.
// They follow the MeteoSIX variable naming.
const (
	MetricTemperature      = "temperature"
	MetricWindSpeed        = "wind_speed"
	MetricWindDirection    = "wind_direction"
	MetricPrecipitation    = "precipitation"
	MetricHumidity         = "humidity"
	MetricCloudCover       = "cloud_cover"
	MetricVisibility       = "visibility"
	MetricWaveHeight       = "wave_height"
	MetricWaterTemperature = "water_temperature"
)

// WeatherSample is a single observation or forecast point. Optional fields
// are pointers: nil means the upstream API did not report the variable.
// Samples are immutable once ingested; transformations build new values.
type WeatherSample struct {
	Timestamp        time.Time `json:"timestamp"`
	Temperature      *float64  `json:"temperature,omitempty"`       // °C
	WindSpeed        *float64  `json:"wind_speed,omitempty"`        // km/h
	WindDirection    *float64  `json:"wind_direction,omitempty"`    // degrees
	Precipitation    *float64  `json:"precipitation,omitempty"`     // mm/h
	Humidity         *float64  `json:"humidity,omitempty"`          // %
	CloudCover       *float64  `json:"cloud_cover,omitempty"`       // %
	Visibility       *float64  `json:"visibility,omitempty"`        // meters
	WaveHeight       *float64  `json:"wave_height,omitempty"`       // meters
	WaterTemperature *float64  `json:"water_temperature,omitempty"` // °C
}

// Field returns the value of a metric by name. The second return value is
// false when the metric is missing from this sample.
func (s WeatherSample) Field(name string) (float64, bool) {
	var p *float64
	switch name {
	case MetricTemperature:
		p = s.Temperature
	case MetricWindSpeed:
		p = s.WindSpeed
	case MetricWindDirection:
		p = s.WindDirection
	case MetricPrecipitation:
		p = s.Precipitation
	case MetricHumidity:
		p = s.Humidity
	case MetricCloudCover:
		p = s.CloudCover
	case MetricVisibility:
		p = s.Visibility
	case MetricWaveHeight:
		p = s.WaveHeight
	case MetricWaterTemperature:
		p = s.WaterTemperature
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Validate rejects physically impossible values. It never clamps.
func (s WeatherSample) Validate() error {
	if s.Timestamp.IsZero() {
		return ValidationError{Timestamp: s.Timestamp, Field: "timestamp", Reason: "must not be zero"}
	}
	if s.WindSpeed != nil && *s.WindSpeed < 0 {
		return ValidationError{Timestamp: s.Timestamp, Field: MetricWindSpeed, Reason: "must not be negative"}
	}
	if s.Precipitation != nil && *s.Precipitation < 0 {
		return ValidationError{Timestamp: s.Timestamp, Field: MetricPrecipitation, Reason: "must not be negative"}
	}
	if s.Humidity != nil && (*s.Humidity < 0 || *s.Humidity > 100) {
		return ValidationError{Timestamp: s.Timestamp, Field: MetricHumidity, Reason: "must be between 0 and 100"}
	}
	if s.CloudCover != nil && (*s.CloudCover < 0 || *s.CloudCover > 100) {
		return ValidationError{Timestamp: s.Timestamp, Field: MetricCloudCover, Reason: "must be between 0 and 100"}
	}
	if s.Visibility != nil && *s.Visibility < 0 {
		return ValidationError{Timestamp: s.Timestamp, Field: MetricVisibility, Reason: "must not be negative"}
	}
	if s.WaveHeight != nil && *s.WaveHeight < 0 {
		return ValidationError{Timestamp: s.Timestamp, Field: MetricWaveHeight, Reason: "must not be negative"}
	}
	return nil
}

// NormalizedSeries is an ordered sequence of samples at a fixed interval.
// Timestamps are strictly increasing and evenly spaced.
type NormalizedSeries struct {
	LocationID string          `json:"location_id"`
	Interval   time.Duration   `json:"interval"`
	Samples    []WeatherSample `json:"samples"`
}

func (s NormalizedSeries) IsEmpty() bool {
	return len(s.Samples) == 0
}

// Start returns the timestamp of the first sample.
func (s NormalizedSeries) Start() time.Time {
	if s.IsEmpty() {
		return time.Time{}
	}
	return s.Samples[0].Timestamp
}

// End returns the timestamp of the last sample.
func (s NormalizedSeries) End() time.Time {
	if s.IsEmpty() {
		return time.Time{}
	}
	return s.Samples[len(s.Samples)-1].Timestamp
}

// Float is a convenience constructor for optional sample fields.
func Float(v float64) *float64 {
	return &v
}
