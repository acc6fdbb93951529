package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/sony/gobreaker"
)

// StormglassProvider implements marine.MarineProvider using the Stormglass
// point weather API (NOAA source).
type StormglassProvider struct {
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewStormglassProvider(httpCfg HTTPClientConfig, apiKey string) *StormglassProvider {
	return &StormglassProvider{
		apiKey:  apiKey,
		baseURL: "https://api.stormglass.io/v2/weather/point",
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("stormglass"),
	}
}

func (p *StormglassProvider) Name() marine.Source {
	return marine.SourceStormglass
}

type stormglassValue struct {
	NOAA *float64 `json:"noaa"`
}

// FetchMarine returns hourly readings covering the calendar day of date in
// date's location.
func (p *StormglassProvider) FetchMarine(ctx context.Context, lat, lon float64, date time.Time) ([]marine.MarineReading, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("stormglass: %w", errNotConfigured)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lng", fmt.Sprintf("%f", lon))
		values.Set("params", "waveHeight,wavePeriod,waterTemperature")
		values.Set("start", strconv.FormatInt(start.Unix(), 10))
		values.Set("end", strconv.FormatInt(end.Unix(), 10))
		values.Set("source", "noaa")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", p.apiKey)
		return req, nil
	}

	var payload struct {
		Hours []struct {
			Time             string          `json:"time"`
			WaveHeight       stormglassValue `json:"waveHeight"`
			WavePeriod       stormglassValue `json:"wavePeriod"`
			WaterTemperature stormglassValue `json:"waterTemperature"`
		} `json:"hours"`
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, buildRequest, &payload); err != nil {
		return nil, fmt.Errorf("stormglass point: %w", err)
	}

	rows := make([]marine.MarineReading, 0, len(payload.Hours))
	for _, h := range payload.Hours {
		ts, err := time.Parse(time.RFC3339, h.Time)
		if err != nil {
			ts = time.Time{}
		}
		rows = append(rows, marine.MarineReading{
			Time:         ts,
			SwellHeightM: h.WaveHeight.NOAA,
			SwellPeriodS: h.WavePeriod.NOAA,
			SeaTempC:     h.WaterTemperature.NOAA,
		})
	}
	return rows, nil
}
