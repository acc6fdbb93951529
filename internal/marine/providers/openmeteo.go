package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/sony/gobreaker"
)

const openMeteoTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements marine.BaselineProvider using the Open-Meteo
// forecast and marine APIs. Neither endpoint requires an API key.
type OpenMeteoProvider struct {
	weatherURL string
	marineURL  string
	location   *time.Location
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// NewOpenMeteoProvider creates the baseline provider. Hourly timestamps are
// requested and parsed in loc.
func NewOpenMeteoProvider(httpCfg HTTPClientConfig, loc *time.Location, logger *slog.Logger) *OpenMeteoProvider {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenMeteoProvider{
		weatherURL: "https://api.open-meteo.com/v1/forecast",
		marineURL:  "https://marine-api.open-meteo.com/v1/marine",
		location:   loc,
		httpCfg:    httpCfg,
		circuit:    newCircuitBreaker("openmeteo"),
		logger:     logger,
	}
}

func (p *OpenMeteoProvider) Name() marine.Source {
	return marine.SourceOpenMeteo
}

type openMeteoWeather struct {
	Hourly struct {
		Time          []string   `json:"time"`
		WindSpeed10m  []*float64 `json:"wind_speed_10m"`
		WindDir10m    []*float64 `json:"wind_direction_10m"`
		Temperature2m []*float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

type openMeteoMarine struct {
	Hourly struct {
		Time               []string   `json:"time"`
		SwellWaveHeight    []*float64 `json:"swell_wave_height"`
		SwellWaveDirection []*float64 `json:"swell_wave_direction"`
		SwellWavePeriod    []*float64 `json:"swell_wave_period"`
		WaveHeight         []*float64 `json:"wave_height"`
		WaveDirection      []*float64 `json:"wave_direction"`
		WavePeriod         []*float64 `json:"wave_period"`
		SeaSurfaceTemp     []*float64 `json:"sea_surface_temperature"`
		SeaLevel           []*float64 `json:"sea_level"`
	} `json:"hourly"`
}

// FetchHourly returns one entry per hour of the weather series. A failed
// weather request is an error; a failed marine request leaves the marine
// fields nil so the day is still usable.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, lat, lon float64, date time.Time) (marine.BaselineSeries, error) {
	isoDate := date.Format("2006-01-02")

	var weather openMeteoWeather
	err := getJSON(ctx, p.httpCfg, p.circuit, p.request(p.weatherURL, lat, lon, isoDate,
		"wind_speed_10m,wind_direction_10m,temperature_2m"), &weather)
	if err != nil {
		return nil, fmt.Errorf("openmeteo weather: %w", err)
	}

	var sea openMeteoMarine
	err = getJSON(ctx, p.httpCfg, p.circuit, p.request(p.marineURL, lat, lon, isoDate,
		"swell_wave_height,swell_wave_direction,swell_wave_period,"+
			"wave_height,wave_direction,wave_period,sea_surface_temperature,sea_level"), &sea)
	if err != nil {
		p.logger.WarnContext(ctx, "openmeteo marine series unavailable", "date", isoDate, "error", err)
		sea = openMeteoMarine{}
	}

	w, m := weather.Hourly, sea.Hourly
	series := make(marine.BaselineSeries, 0, len(w.Time))
	for i, ts := range w.Time {
		t, err := time.ParseInLocation(openMeteoTimeLayout, ts, p.location)
		if err != nil {
			t = time.Time{}
		}
		series = append(series, marine.BaselineHour{
			Time:         t,
			WindSpeedMS:  at(w.WindSpeed10m, i),
			WindBearing:  at(w.WindDir10m, i),
			AirTempC:     at(w.Temperature2m, i),
			SwellHeightM: at(m.SwellWaveHeight, i),
			SwellPeriodS: at(m.SwellWavePeriod, i),
			SwellBearing: at(m.SwellWaveDirection, i),
			WaveHeightM:  at(m.WaveHeight, i),
			WavePeriodS:  at(m.WavePeriod, i),
			WaveBearing:  at(m.WaveDirection, i),
			SeaTempC:     at(m.SeaSurfaceTemp, i),
			SeaLevel:     at(m.SeaLevel, i),
		})
	}
	return series, nil
}

func (p *OpenMeteoProvider) request(baseURL string, lat, lon float64, isoDate, hourly string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("start_date", isoDate)
		values.Set("end_date", isoDate)
		values.Set("hourly", hourly)
		// Wind in m/s; the bundle converts to km/h.
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", p.location.String())

		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}
