package marine

import (
	"context"
	"time"
)

// BaselineHour is one hour of the baseline provider's series. Nil means the
// provider returned null for that hour.
type BaselineHour struct {
	Time time.Time

	WindSpeedMS *float64
	WindBearing *float64
	AirTempC    *float64

	SwellHeightM *float64
	SwellPeriodS *float64
	SwellBearing *float64

	// Combined-wave series, used when the swell-specific values are missing.
	WaveHeightM *float64
	WavePeriodS *float64
	WaveBearing *float64

	SeaTempC *float64
	SeaLevel *float64
}

// BaselineSeries is the baseline provider's hourly series for one date.
type BaselineSeries []BaselineHour

// WindReading is one entry from the wind override provider. Wind speed is m/s.
type WindReading struct {
	Time        time.Time
	WindSpeedMS *float64
	WindBearing *float64
	AirTempC    *float64
}

// MarineReading is one entry from the marine override provider.
type MarineReading struct {
	Time         time.Time
	SwellHeightM *float64
	SwellPeriodS *float64
	SeaTempC     *float64
}

// BaselineProvider is the always-consulted weather and marine source.
type BaselineProvider interface {
	Name() Source
	FetchHourly(ctx context.Context, lat, lon float64, date time.Time) (BaselineSeries, error)
}

// WindProvider overrides wind and air temperature when it has usable data.
type WindProvider interface {
	Name() Source
	FetchForecast(ctx context.Context, lat, lon float64) ([]WindReading, error)
}

// MarineProvider overrides swell and sea temperature when it has usable data.
type MarineProvider interface {
	Name() Source
	FetchMarine(ctx context.Context, lat, lon float64, date time.Time) ([]MarineReading, error)
}
