package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements marine.WindProvider using the OpenWeatherMap
// 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(httpCfg HTTPClientConfig, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() marine.Source {
	return marine.SourceOpenWeather
}

// FetchForecast returns the 3-hourly forecast entries. Wind speed stays in m/s.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]marine.WindReading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", errNotConfigured)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lon))
		values.Set("units", "metric")
		values.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     *float64 `json:"temp"`
				Pressure *float64 `json:"pressure"`
			} `json:"main"`
			Wind struct {
				Speed *float64 `json:"speed"`
				Deg   *float64 `json:"deg"`
			} `json:"wind"`
		} `json:"list"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, buildRequest, &payload); err != nil {
		return nil, fmt.Errorf("openweather forecast: %w", err)
	}

	rows := make([]marine.WindReading, 0, len(payload.List))
	for _, entry := range payload.List {
		var ts time.Time
		if entry.Dt > 0 {
			ts = time.Unix(entry.Dt, 0).UTC()
		}
		rows = append(rows, marine.WindReading{
			Time:        ts,
			WindSpeedMS: entry.Wind.Speed,
			WindBearing: entry.Wind.Deg,
			AirTempC:    entry.Main.Temp,
		})
	}
	return rows, nil
}
