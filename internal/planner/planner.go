// Package planner scores daypart fishing windows across a date range and
// ranks them for a set of target species.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/i474232898/fishing-planner/internal/reference"
)

// MaxPlanningDays caps the inclusive span of a plan.
const MaxPlanningDays = 10

// dayConcurrency bounds how many days are fetched at once.
const dayConcurrency = 4

const dateLayout = "2006-01-02"

// Gazetteer resolves region/area ids. Unknown ids return an error wrapping
// reference.ErrNotFound.
type Gazetteer interface {
	Resolve(regionID, areaID string) (reference.Region, reference.Area, error)
}

// BundleBuilder produces the hourly series for a location. One DayBuilder is
// used per plan so date-independent provider data is fetched once.
type BundleBuilder interface {
	ForLocation(lat, lon float64) marine.DayBuilder
	Sources() []marine.Source
}

// Service is the trip planner. It keeps no state between calls.
type Service struct {
	gazetteer Gazetteer
	rules     RuleMatcher
	bundles   BundleBuilder
	scorer    *Scorer
	location  *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewService wires the planner. loc is the timezone "today" and the plan dates
// are interpreted in.
func NewService(gazetteer Gazetteer, rules RuleMatcher, bundles BundleBuilder, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		gazetteer: gazetteer,
		rules:     rules,
		bundles:   bundles,
		scorer:    NewScorer(rules),
		location:  loc,
		now:       time.Now,
		logger:    logger,
	}
}

// Location returns the planner's timezone.
func (s *Service) Location() *time.Location {
	return s.location
}

// Today returns the current date in the planner's timezone.
func (s *Service) Today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

type dayPlan struct {
	date     string
	windows  []ScoredWindow
	series   []WindowSummary
	degraded bool
}

// Plan validates req, scores every (day, window) pair and returns them ranked
// by score. Validation failures are returned as *ValidationError.
func (s *Service) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	species, err := s.resolveSpecies(req.Species)
	if err != nil {
		return nil, err
	}

	region, area, err := s.gazetteer.Resolve(strings.TrimSpace(req.RegionID), strings.TrimSpace(req.AreaID))
	if err != nil {
		if errors.Is(err, reference.ErrNotFound) {
			return nil, &ValidationError{Message: "unknown region/area selection", Err: err}
		}
		return nil, fmt.Errorf("resolve area: %w", err)
	}

	start, err := s.parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := s.parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}

	if start.Before(s.Today()) {
		return nil, invalid("only today and future dates are allowed")
	}
	if end.Before(start) {
		return nil, invalid("end date must be on or after start date")
	}
	span := daysBetween(start, end) + 1
	if span > MaxPlanningDays {
		return nil, invalid("limit date range to %d days or fewer", MaxPlanningDays)
	}

	days := make([]dayPlan, span)
	bundles := s.bundles.ForLocation(area.Lat, area.Lon)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dayConcurrency)
	for i := range span {
		day := start.AddDate(0, 0, i)
		g.Go(func() error {
			dp, err := s.planDay(gctx, bundles, area, species, day)
			if err != nil {
				return err
			}
			days[i] = dp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &PlanResult{
		Region:  region,
		Area:    area,
		Species: species,
		Days:    make([]DaySeries, 0, span),
	}

	// Flatten in day then catalog order so the stable sort keeps that order on ties.
	for _, dp := range days {
		result.Results = append(result.Results, dp.windows...)
		result.Days = append(result.Days, DaySeries{Date: dp.date, Windows: dp.series})
		if dp.degraded {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("baseline data unavailable for %s; windows use zero-valued conditions", dp.date))
		}
	}
	sort.SliceStable(result.Results, func(i, j int) bool {
		return result.Results[i].Score > result.Results[j].Score
	})

	result.Sources = append(result.Sources, s.bundles.Sources()...)
	slices.Sort(result.Sources)

	result.GeneratedAt = s.now().UTC()
	return result, nil
}

func (s *Service) planDay(ctx context.Context, bundles marine.DayBuilder, area reference.Area, species []string, day time.Time) (dayPlan, error) {
	dp := dayPlan{date: day.Format(dateLayout)}

	bundle, err := bundles.BuildDay(ctx, day)
	if err != nil {
		if ctx.Err() != nil {
			return dp, ctx.Err()
		}
		if !errors.Is(err, marine.ErrBaselineUnavailable) {
			return dp, fmt.Errorf("build bundle for %s: %w", dp.date, err)
		}
		s.logger.WarnContext(ctx, "baseline unavailable; scoring day from empty bundle",
			"area", area.ID,
			"date", dp.date,
			"error", err,
		)
		dp.degraded = true
		bundle = nil
	}

	dp.windows = make([]ScoredWindow, 0, len(marine.Windows))
	dp.series = make([]WindowSummary, 0, len(marine.Windows))
	for _, w := range marine.Windows {
		agg := marine.Aggregate(bundle, w)
		scored, err := s.scorer.Score(agg, species, area.CoastFacing, w.ID)
		if err != nil {
			return dp, err
		}
		scored.Date = dp.date
		scored.BaselineMissing = dp.degraded
		dp.windows = append(dp.windows, scored)
		dp.series = append(dp.series, WindowSummary{
			WindowID:     w.ID,
			Window:       w.Label,
			WindSpeedKmh: scored.WindSpeedKmh,
			SwellHeightM: scored.SwellHeightM,
			SeaTempC:     scored.SeaTempC,
			TidePhase:    scored.TidePhase,
		})
	}
	for i := range dp.windows {
		dp.windows[i].DayWindows = dp.series
	}
	return dp, nil
}

// resolveSpecies normalises ids and defaults to the whole catalogue.
func (s *Service) resolveSpecies(requested []string) ([]string, error) {
	catalog := s.rules.Species()
	if len(requested) == 0 {
		return catalog, nil
	}
	species := make([]string, 0, len(requested))
	for _, sp := range requested {
		id := strings.ToLower(strings.TrimSpace(sp))
		if !slices.Contains(catalog, id) {
			return nil, invalid("unknown species %q", sp)
		}
		species = append(species, id)
	}
	return species, nil
}

func (s *Service) parseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), s.location)
	if err != nil {
		return time.Time{}, &ValidationError{Message: "dates must be in YYYY-MM-DD format", Err: err}
	}
	return t, nil
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
