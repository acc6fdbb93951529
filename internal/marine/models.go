package marine

import (
	"time"
)

// Source identifies the provider whose value ended up in a merged field.
type Source string

const (
	SourceOpenMeteo   Source = "open-meteo"
	SourceOpenWeather Source = "openweather"
	SourceStormglass  Source = "stormglass"
)

// Field names a reconciled quantity in provenance maps.
type Field string

const (
	FieldWindSpeed      Field = "wind"
	FieldWindBearing    Field = "wind_deg"
	FieldAirTemp        Field = "air_temp"
	FieldSwellHeight    Field = "swell"
	FieldSwellPeriod    Field = "swell_period"
	FieldSwellDirection Field = "swell_direction"
	FieldSeaTemp        Field = "sea_temp"
	FieldTide           Field = "tide"
)

// TidePhase is the coarse trend label derived from sea level.
type TidePhase string

const (
	TideUnknown TidePhase = "Unknown"
	TideRising  TidePhase = "Rising"
	TideHigh    TidePhase = "High"
	TideFalling TidePhase = "Falling"
	// TideLow is only produced by the point-prediction feature encoding.
	// TidePhaseForWindow never returns it.
	TideLow TidePhase = "Low"
)

// HourlyRecord is the canonical reading for one hour at one location.
// Numeric fields are 0 when no provider supplied a value.
type HourlyRecord struct {
	Time         time.Time        `json:"time"`
	WindSpeedKmh float64          `json:"windSpeedKmh"`
	WindBearing  float64          `json:"windBearing"`
	AirTempC     float64          `json:"airTempC"`
	SwellHeightM float64          `json:"swellHeightM"`
	SwellPeriodS float64          `json:"swellPeriodS"`
	SwellBearing float64          `json:"swellBearing"`
	SeaTempC     float64          `json:"seaTempC"`
	SeaLevel     float64          `json:"seaLevel"`
	Provenance   map[Field]Source `json:"sources"`
}

// Bundle is the ordered hourly series for one calendar day.
type Bundle []HourlyRecord

// DaypartWindow is a half-open hour range [Start, End) within a day.
type DaypartWindow struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Contains reports whether hour falls inside the window.
func (w DaypartWindow) Contains(hour int) bool {
	return w.Start <= hour && hour < w.End
}

// Windows is the fixed daypart catalog. Hours 11, <5 and >=19 are never scored.
var Windows = []DaypartWindow{
	{ID: "dawn", Label: "Dawn", Start: 5, End: 8},
	{ID: "morning", Label: "Morning", Start: 8, End: 11},
	{ID: "afternoon", Label: "Afternoon", Start: 12, End: 15},
	{ID: "evening", Label: "Evening", Start: 16, End: 19},
}

// AggregatedWindow holds one window's statistics for one day.
type AggregatedWindow struct {
	Window       DaypartWindow    `json:"window"`
	WindSpeedKmh float64          `json:"windSpeedKmh"`
	WindBearing  float64          `json:"windBearing"`
	AirTempC     float64          `json:"airTempC"`
	SwellHeightM float64          `json:"swellHeightM"`
	SwellPeriodS float64          `json:"swellPeriodS"`
	SwellBearing float64          `json:"swellBearing"`
	SeaTempC     float64          `json:"seaTempC"`
	SeaLevel     float64          `json:"seaLevel"`
	TidePhase    TidePhase        `json:"tidePhase"`
	Count        int              `json:"count"`
	Sources      map[Field]Source `json:"sources"`
}
