package normalizer

import (
	"sort"
	"time"

	"github.com/eliz29ese/hackUDC26/internal/domain/entities"
	"github.com/eliz29ese/hackUDC26/internal/logger"
)

// interpolated metric fields, in sample order
var metricFields = []string{
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

// Normalizer aligns raw, possibly irregular samples to a fixed-interval
// grid. The operation is idempotent: a series already on the grid comes
// back identical.
type Normalizer struct {
	interval time.Duration
	maxGap   int
	logger   logger.Logger
}

func New(interval time.Duration, maxGap int) *Normalizer {
	return &Normalizer{
		interval: interval,
		maxGap:   maxGap,
		logger:   logger.New("info", "development").WithField("component", "normalizer"),
	}
}

// Normalize validates, deduplicates and grid-aligns the given samples.
// Duplicate grid slots resolve last-write-wins in input order. Runs of up
// to maxGap missing values per field are filled by linear interpolation
// between the nearest valid neighbors; longer runs stay explicitly missing.
// Physically invalid values are rejected with a ValidationError naming the
// offending sample and field, never clamped.
func (n *Normalizer) Normalize(locationID string, samples []entities.WeatherSample) (entities.NormalizedSeries, error) {
	series := entities.NormalizedSeries{
		LocationID: locationID,
		Interval:   n.interval,
	}
	if len(samples) == 0 {
		return series, nil
	}

	for _, sample := range samples {
		if err := sample.Validate(); err != nil {
			return entities.NormalizedSeries{}, err
		}
	}

	slots := make(map[time.Time]entities.WeatherSample, len(samples))
	for _, sample := range samples {
		snapped := sample
		snapped.Timestamp = sample.Timestamp.Truncate(n.interval)
		slots[snapped.Timestamp] = snapped
	}

	grid := make([]time.Time, 0, len(slots))
	for ts := range slots {
		grid = append(grid, ts)
	}
	sort.Slice(grid, func(i, j int) bool { return grid[i].Before(grid[j]) })

	start, end := grid[0], grid[len(grid)-1]
	aligned := make([]entities.WeatherSample, 0, int(end.Sub(start)/n.interval)+1)
	for ts := start; !ts.After(end); ts = ts.Add(n.interval) {
		if sample, ok := slots[ts]; ok {
			aligned = append(aligned, sample)
		} else {
			aligned = append(aligned, entities.WeatherSample{Timestamp: ts})
		}
	}

	for _, field := range metricFields {
		n.fillGaps(aligned, field)
	}

	n.logger.Debugf("Normalized %d raw samples into %d grid points for %s",
		len(samples), len(aligned), locationID)

	series.Samples = aligned
	return series, nil
}

// fillGaps interpolates one field across runs of missing grid points no
// longer than maxGap.
func (n *Normalizer) fillGaps(samples []entities.WeatherSample, field string) {
	prev := -1
	for i := 0; i < len(samples); i++ {
		value, ok := samples[i].Field(field)
		if !ok {
			continue
		}
		if prev >= 0 {
			gap := i - prev - 1
			if gap > 0 && gap <= n.maxGap {
				prevValue, _ := samples[prev].Field(field)
				step := (value - prevValue) / float64(i-prev)
				for k := prev + 1; k < i; k++ {
					setField(&samples[k], field, prevValue+step*float64(k-prev))
				}
			}
		}
		prev = i
	}
}

func setField(sample *entities.WeatherSample, field string, value float64) {
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
