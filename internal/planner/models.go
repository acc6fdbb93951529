package planner

import (
	"time"

	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/i474232898/fishing-planner/internal/reference"
)

// PlanRequest is the input to Service.Plan. Dates are YYYY-MM-DD.
type PlanRequest struct {
	RegionID  string   `json:"region_id" validate:"required"`
	AreaID    string   `json:"area_id" validate:"required"`
	Species   []string `json:"species"`
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
}

// SpeciesResult is one species' contribution to a window score.
type SpeciesResult struct {
	Species string          `json:"species"`
	Label   reference.Label `json:"label"`
	Score   float64         `json:"score"`
	Legal   string          `json:"legal"`
}

// WindowSummary is the per-window point of a day's charting series.
type WindowSummary struct {
	WindowID     string           `json:"window_id"`
	Window       string           `json:"window"`
	WindSpeedKmh float64          `json:"wind_speed"`
	SwellHeightM float64          `json:"swell_height"`
	SeaTempC     float64          `json:"sea_temp"`
	TidePhase    marine.TidePhase `json:"tide_phase"`
}

// ScoredWindow is the scored result for one (day, window) pair.
type ScoredWindow struct {
	Date     string `json:"date"`
	WindowID string `json:"window_id"`
	Window   string `json:"window"`

	Score      float64         `json:"score"`
	PerSpecies []SpeciesResult `json:"per_species"`

	WindSpeedKmh float64                        `json:"wind_speed"`
	WindBearing  float64                        `json:"wind_deg"`
	SwellHeightM float64                        `json:"swell_height"`
	SwellPeriodS float64                        `json:"swell_period"`
	SeaTempC     float64                        `json:"sea_temp"`
	TidePhase    marine.TidePhase               `json:"tide_phase"`
	CoastFacing  string                         `json:"coast_facing"`
	Sources      map[marine.Field]marine.Source `json:"sources"`

	Explanation string   `json:"explanation"`
	Factors     []string `json:"factors"`

	// BaselineMissing marks windows of a day whose baseline fetch failed;
	// their conditions are the zero-valued defaults.
	BaselineMissing bool            `json:"baseline_missing,omitempty"`
	DayWindows      []WindowSummary `json:"day_windows"`
}

// DaySeries is one day's window summaries, in catalog order.
type DaySeries struct {
	Date    string          `json:"date"`
	Windows []WindowSummary `json:"windows"`
}

// PlanResult is the ranked output of Service.Plan.
type PlanResult struct {
	Region      reference.Region `json:"region"`
	Area        reference.Area   `json:"area"`
	Species     []string         `json:"species"`
	GeneratedAt time.Time        `json:"generated_at"`
	Results     []ScoredWindow   `json:"results"`
	Days        []DaySeries      `json:"days"`
	Sources     []marine.Source  `json:"sources"`
	Warnings    []string         `json:"warnings,omitempty"`
}
