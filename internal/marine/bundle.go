package marine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrBaselineUnavailable is returned when the baseline provider fails for a day.
var ErrBaselineUnavailable = errors.New("baseline provider unavailable")

// BundleConfig wires the providers used to build hourly bundles. Wind and
// Marine are nil when the corresponding provider is not configured.
type BundleConfig struct {
	Baseline BaselineProvider
	Wind     WindProvider
	Marine   MarineProvider

	// Timeout bounds each provider call. Zero means no per-call bound.
	Timeout time.Duration

	// Policies overrides the zero-is-unusable default per field.
	Policies FieldPolicy

	Logger *slog.Logger
}

// Builder assembles the canonical hourly series for one location and date.
// It holds no mutable state and is safe for concurrent use.
type Builder struct {
	cfg    BundleConfig
	logger *slog.Logger
}

// NewBuilder creates a Builder. cfg.Baseline is required.
func NewBuilder(cfg BundleConfig) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, logger: logger}
}

// Sources lists the baseline and every configured override provider.
func (b *Builder) Sources() []Source {
	sources := []Source{b.cfg.Baseline.Name()}
	if b.cfg.Wind != nil {
		sources = append(sources, b.cfg.Wind.Name())
	}
	if b.cfg.Marine != nil {
		sources = append(sources, b.cfg.Marine.Name())
	}
	return sources
}

// DayBuilder builds bundles for one fixed location.
type DayBuilder interface {
	BuildDay(ctx context.Context, date time.Time) (Bundle, error)
}

// Build assembles the bundle for a single day at lat/lon.
func (b *Builder) Build(ctx context.Context, lat, lon float64, date time.Time) (Bundle, error) {
	return b.ForLocation(lat, lon).BuildDay(ctx, date)
}

// ForLocation returns a DayBuilder for lat/lon that fetches the wind
// forecast, which does not depend on the date, at most once. It is meant to be
// scoped to one planning request and is safe for concurrent use.
func (b *Builder) ForLocation(lat, lon float64) DayBuilder {
	return &locationBuilder{b: b, lat: lat, lon: lon}
}

type locationBuilder struct {
	b        *Builder
	lat, lon float64

	windOnce sync.Once
	windRows []WindReading
}

func (l *locationBuilder) wind(ctx context.Context) []WindReading {
	l.windOnce.Do(func() {
		callCtx, cancel := l.b.callContext(ctx)
		defer cancel()
		rows, err := l.b.cfg.Wind.FetchForecast(callCtx, l.lat, l.lon)
		if err != nil {
			l.b.logger.WarnContext(ctx, "override provider degraded",
				"provider", l.b.cfg.Wind.Name(),
				"error", err,
			)
			return
		}
		l.windRows = rows
	})
	return l.windRows
}

// BuildDay fetches all providers concurrently and reconciles them hour by
// hour. One record is produced per baseline hour. Override failures are
// logged and the provider is left out of the merge; a baseline failure is
// returned as an error wrapping ErrBaselineUnavailable.
func (l *locationBuilder) BuildDay(ctx context.Context, date time.Time) (Bundle, error) {
	b := l.b
	if b.cfg.Baseline == nil {
		return nil, fmt.Errorf("%w: no baseline provider configured", ErrBaselineUnavailable)
	}

	var (
		wg          sync.WaitGroup
		baseline    BaselineSeries
		baselineErr error
		windRows    []WindReading
		marineRows  []MarineReading
	)

	day := date.Format("2006-01-02")

	wg.Add(1)
	go func() {
		defer wg.Done()
		callCtx, cancel := b.callContext(ctx)
		defer cancel()
		baseline, baselineErr = b.cfg.Baseline.FetchHourly(callCtx, l.lat, l.lon, date)
	}()

	if b.cfg.Wind != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			windRows = l.wind(ctx)
		}()
	}

	if b.cfg.Marine != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			callCtx, cancel := b.callContext(ctx)
			defer cancel()
			rows, err := b.cfg.Marine.FetchMarine(callCtx, l.lat, l.lon, date)
			if err != nil {
				b.logger.WarnContext(ctx, "override provider degraded",
					"provider", b.cfg.Marine.Name(),
					"date", day,
					"error", err,
				)
				return
			}
			marineRows = rows
		}()
	}

	wg.Wait()

	if baselineErr != nil {
		return nil, fmt.Errorf("%w: %s on %s: %v", ErrBaselineUnavailable, b.cfg.Baseline.Name(), day, baselineErr)
	}

	var windSrc, marineSrc Source
	if b.cfg.Wind != nil {
		windSrc = b.cfg.Wind.Name()
	}
	if b.cfg.Marine != nil {
		marineSrc = b.cfg.Marine.Name()
	}

	bundle := make(Bundle, 0, len(baseline))
	for _, h := range baseline {
		bundle = append(bundle, b.reconcileHour(h, windRows, windSrc, marineRows, marineSrc))
	}
	return bundle, nil
}

func (b *Builder) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.cfg.Timeout)
}

func (b *Builder) reconcileHour(h BaselineHour, windRows []WindReading, windSrc Source, marineRows []MarineReading, marineSrc Source) HourlyRecord {
	base := b.cfg.Baseline.Name()
	policy := b.cfg.Policies

	wind := Sourced{Value: valueOr(KmhFromMS(h.WindSpeedMS), 0), Source: base}
	windDeg := Sourced{Value: valueOr(h.WindBearing, 0), Source: base}
	airTemp := Sourced{Value: valueOr(h.AirTempC, 0), Source: base}
	swell := Sourced{Value: swellOrWave(h.SwellHeightM, h.WaveHeightM), Source: base}
	swellPeriod := Sourced{Value: swellOrWave(h.SwellPeriodS, h.WavePeriodS), Source: base}
	seaTemp := Sourced{Value: valueOr(h.SeaTempC, 0), Source: base}

	// Baseline hours without a timestamp cannot be matched to override readings.
	if !h.Time.IsZero() {
		if w, ok := nearest(windRows, h.Time, func(r WindReading) time.Time { return r.Time }); ok {
			wind = Merge(wind, KmhFromMS(w.WindSpeedMS), windSrc, policy.For(FieldWindSpeed))
			windDeg = Merge(windDeg, w.WindBearing, windSrc, policy.For(FieldWindBearing))
			airTemp = Merge(airTemp, w.AirTempC, windSrc, policy.For(FieldAirTemp))
		}
		if m, ok := nearest(marineRows, h.Time, func(r MarineReading) time.Time { return r.Time }); ok {
			swell = Merge(swell, m.SwellHeightM, marineSrc, policy.For(FieldSwellHeight))
			swellPeriod = Merge(swellPeriod, m.SwellPeriodS, marineSrc, policy.For(FieldSwellPeriod))
			seaTemp = Merge(seaTemp, m.SeaTempC, marineSrc, policy.For(FieldSeaTemp))
		}
	}

	return HourlyRecord{
		Time:         h.Time,
		WindSpeedKmh: wind.Value,
		WindBearing:  windDeg.Value,
		AirTempC:     airTemp.Value,
		SwellHeightM: swell.Value,
		SwellPeriodS: swellPeriod.Value,
		SwellBearing: swellOrWave(h.SwellBearing, h.WaveBearing),
		SeaTempC:     seaTemp.Value,
		SeaLevel:     valueOr(h.SeaLevel, 0),
		Provenance: map[Field]Source{
			FieldWindSpeed:      wind.Source,
			FieldWindBearing:    windDeg.Source,
			FieldAirTemp:        airTemp.Source,
			FieldSwellHeight:    swell.Source,
			FieldSwellPeriod:    swellPeriod.Source,
			FieldSwellDirection: base,
			FieldSeaTemp:        seaTemp.Source,
			FieldTide:           base,
		},
	}
}

// nearest returns the row closest in time to at. Rows with a zero timestamp
// are skipped; on equal distance the earlier row in rows wins.
func nearest[T any](rows []T, at time.Time, timeOf func(T) time.Time) (T, bool) {
	var (
		best      T
		bestDelta time.Duration
		found     bool
	)
	for _, r := range rows {
		ts := timeOf(r)
		if ts.IsZero() {
			continue
		}
		delta := ts.Sub(at)
		if delta < 0 {
			delta = -delta
		}
		if !found || delta < bestDelta {
			best, bestDelta, found = r, delta, true
		}
	}
	return best, found
}
