package window

import (
	"math"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// Method selects how samples are downsampled to a coarser granularity.
type Method string

const (
	MethodNearest Method = "nearest"
	MethodAverage Method = "average"
)

// Request describes the forecast horizon to extract: an absolute start
// (the caller resolves "offset from now"), a duration, and a granularity at
// or coarser than the series interval.
type Request struct {
	Start       time.Time
	Duration    time.Duration
	Granularity time.Duration
	Method      Method
}

// Selector extracts a bounded sub-series. Requests beyond the stored
// coverage never fail; the selector returns whatever overlap exists plus a
// DataCoverageWarning.
type Selector struct {
	logger logger.Logger
}

func NewSelector() *Selector {
	return &Selector{
		logger: logger.New("info", "development").WithField("component", "window_selector"),
	}
}

// Select returns the windowed sub-series, resampled to req.Granularity, and
// a coverage warning when the requested window was not fully covered. The
// returned series is an independent copy; callers can re-iterate it freely.
func (s *Selector) Select(series entities.NormalizedSeries, req Request) (entities.NormalizedSeries, *entities.DataCoverageWarning, error) {
	if req.Duration <= 0 {
		return entities.NormalizedSeries{}, nil, entities.ConfigurationError{
			Key: "window.duration", Reason: "must be positive",
		}
	}
	granularity := req.Granularity
	if granularity == 0 {
		granularity = series.Interval
	}
	if series.Interval > 0 {
		if granularity < series.Interval {
			return entities.NormalizedSeries{}, nil, entities.ConfigurationError{
				Key: "window.granularity", Reason: "must be at or coarser than the series interval",
			}
		}
		if granularity%series.Interval != 0 {
			return entities.NormalizedSeries{}, nil, entities.ConfigurationError{
				Key: "window.granularity", Reason: "must be a multiple of the series interval",
			}
		}
	}
	method := req.Method
	if method == "" {
		method = MethodNearest
	}

	windowEnd := req.Start.Add(req.Duration)
	out := entities.NormalizedSeries{
		LocationID: series.LocationID,
		Interval:   granularity,
	}

	var inWindow []entities.WeatherSample
	for _, sample := range series.Samples {
		if sample.Timestamp.Before(req.Start) || !sample.Timestamp.Before(windowEnd) {
			continue
		}
		inWindow = append(inWindow, sample)
	}

	warning := s.coverageWarning(series, req.Start, windowEnd)

	if len(inWindow) == 0 {
		out.Samples = []entities.WeatherSample{}
		return out, warning, nil
	}

	out.Samples = resample(inWindow, req.Start, windowEnd, granularity, method)
	s.logger.Debugf("Selected %d of %d samples for window starting %s",
		len(out.Samples), len(series.Samples), req.Start.Format(time.RFC3339))

	return out, warning, nil
}

func (s *Selector) coverageWarning(series entities.NormalizedSeries, start, end time.Time) *entities.DataCoverageWarning {
	if series.IsEmpty() {
		return &entities.DataCoverageWarning{RequestedStart: start, RequestedEnd: end}
	}
	covered := series.End().Add(series.Interval)
	if !start.Before(series.Start()) && !end.After(covered) {
		return nil
	}
	return &entities.DataCoverageWarning{
		RequestedStart: start,
		RequestedEnd:   end,
		CoveredStart:   series.Start(),
		CoveredEnd:     covered,
	}
}

func resample(samples []entities.WeatherSample, start, end time.Time, granularity time.Duration, method Method) []entities.WeatherSample {
	var out []entities.WeatherSample
	for bucket := start; bucket.Before(end); bucket = bucket.Add(granularity) {
		bucketEnd := bucket.Add(granularity)
		var members []entities.WeatherSample
		for _, sample := range samples {
			if sample.Timestamp.Before(bucket) || !sample.Timestamp.Before(bucketEnd) {
				continue
			}
			members = append(members, sample)
		}
		if len(members) == 0 {
			continue
		}
		switch method {
		case MethodAverage:
			out = append(out, averageSample(bucket, members))
		default:
			out = append(out, nearestSample(bucket, members))
		}
	}
	return out
}

func nearestSample(bucket time.Time, members []entities.WeatherSample) entities.WeatherSample {
	best := members[0]
	bestDist := math.Abs(float64(members[0].Timestamp.Sub(bucket)))
	for _, sample := range members[1:] {
		dist := math.Abs(float64(sample.Timestamp.Sub(bucket)))
		if dist < bestDist {
			best = sample
			bestDist = dist
		}
	}
	picked := best
	picked.Timestamp = bucket
	return picked
}

func averageSample(bucket time.Time, members []entities.WeatherSample) entities.WeatherSample {
	fields := []string{
		entities.MetricTemperature,
		entities.MetricWindSpeed,
		entities.MetricWindDirection,
		entities.MetricPrecipitation,
		entities.MetricHumidity,
		entities.MetricCloudCover,
		entities.MetricVisibility,
		entities.MetricWaveHeight,
		entities.MetricWaterTemperature,
	}
	avg := entities.WeatherSample{Timestamp: bucket}
	for _, field := range fields {
		sum, count := 0.0, 0
		for _, sample := range members {
			if value, ok := sample.Field(field); ok {
				sum += value
				count++
			}
		}
		if count > 0 {
			setAverage(&avg, field, sum/float64(count))
		}
	}
	return avg
}

func setAverage(sample *entities.WeatherSample, field string, value float64) {
	switch field {
	case entities.MetricTemperature:
		sample.Temperature = entities.Float(value)
	case entities.MetricWindSpeed:
		sample.WindSpeed = entities.Float(value)
	case entities.MetricWindDirection:
		sample.WindDirection = entities.Float(value)
	case entities.MetricPrecipitation:
		sample.Precipitation = entities.Float(value)
	case entities.MetricHumidity:
		sample.Humidity = entities.Float(value)
	case entities.MetricCloudCover:
		sample.CloudCover = entities.Float(value)
	case entities.MetricVisibility:
		sample.Visibility = entities.Float(value)
	case entities.MetricWaveHeight:
		sample.WaveHeight = entities.Float(value)
	case entities.MetricWaterTemperature:
		sample.WaterTemperature = entities.Float(value)
	}
}
