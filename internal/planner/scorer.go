package planner

import (
	"fmt"
	"math"
	"slices"

	"github.com/i474232898/fishing-planner/internal/common"
	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/i474232898/fishing-planner/internal/reference"
)

// RuleMatcher labels window conditions per species and exposes species metadata.
type RuleMatcher interface {
	Species() []string
	Label(species string, cond reference.Conditions) (reference.Label, error)
	TimePreference(species string) []string
	LegalNote(species string) string
}

// Penalty thresholds are in km/h and metres.
const (
	windPenaltyThresholdKmh = 43.0
	windPenaltyPerKmh       = 0.33
	swellPenaltyThresholdM  = 2.5
	swellPenaltyPerM        = 5.0

	offshoreMaxKmh   = 54.0
	crossShoreMaxKmh = 43.0
	offshoreBonus    = 6.0
	crossShoreBonus  = 3.0

	genericTimeBonus = 4.0
	speciesTimeBonus = 6.0
)

var labelPoints = map[reference.Label]float64{
	reference.LabelIdeal: 30,
	reference.LabelGood:  18,
	reference.LabelPoor:  6,
}

const unknownLabelPoints = 5.0

// genericTimeBonusWindows get the time-of-day bonus for every species set.
var genericTimeBonusWindows = map[string]bool{
	"dawn":    true,
	"evening": true,
}

// facingAzimuth maps coast-facing compass labels to bearings.
var facingAzimuth = map[string]float64{
	"N":   0,
	"NE":  45,
	"ENE": 67,
	"E":   90,
	"ESE": 112,
	"SE":  135,
	"SSE": 157,
	"S":   180,
	"SW":  225,
	"WSW": 247,
	"W":   270,
	"WNW": 292,
	"NW":  315,
}

// AngleDiff returns the smallest difference between two bearings, in [0, 180].
func AngleDiff(a, b float64) float64 {
	diff := math.Mod(math.Abs(a-b), 360)
	if diff > 180 {
		return 360 - diff
	}
	return diff
}

// Scorer scores aggregated windows for a set of target species.
type Scorer struct {
	rules RuleMatcher
}

// NewScorer creates a Scorer backed by rules.
func NewScorer(rules RuleMatcher) *Scorer {
	return &Scorer{rules: rules}
}

// CoastWindBonus rewards offshore or light cross-shore wind for the coast facing.
// Unknown facings get no bonus.
func CoastWindBonus(coastFacing string, windBearing, windSpeedKmh float64) float64 {
	facing, ok := facingAzimuth[coastFacing]
	if !ok {
		return 0
	}
	offshore := math.Mod(facing+180, 360)
	delta := AngleDiff(windBearing, offshore)
	switch {
	case delta <= 45 && windSpeedKmh <= offshoreMaxKmh:
		return offshoreBonus
	case delta <= 90 && windSpeedKmh <= crossShoreMaxKmh:
		return crossShoreBonus
	default:
		return 0
	}
}

// Score evaluates agg for species. The returned window carries the
// environmental values, explanation and fired factors; the caller fills in
// date and day series. A rule-matcher error aborts scoring.
func (s *Scorer) Score(agg marine.AggregatedWindow, species []string, coastFacing string, windowID string) (ScoredWindow, error) {
	cond := reference.Conditions{
		WindBearing:  agg.WindBearing,
		SeaTempC:     agg.SeaTempC,
		SwellHeightM: agg.SwellHeightM,
		TidePhase:    agg.TidePhase,
	}

	perSpecies := make([]SpeciesResult, 0, len(species))
	var base float64
	for _, sp := range species {
		label, err := s.rules.Label(sp, cond)
		if err != nil {
			return ScoredWindow{}, fmt.Errorf("label %s for %s: %w", sp, windowID, err)
		}
		points, ok := labelPoints[label]
		if !ok {
			points = unknownLabelPoints
		}
		base += points
		perSpecies = append(perSpecies, SpeciesResult{
			Species: sp,
			Label:   label,
			Score:   points,
			Legal:   s.rules.LegalNote(sp),
		})
	}

	windPenalty := math.Max(0, agg.WindSpeedKmh-windPenaltyThresholdKmh) * windPenaltyPerKmh
	swellPenalty := math.Max(0, agg.SwellHeightM-swellPenaltyThresholdM) * swellPenaltyPerM

	var timeBonus float64
	if genericTimeBonusWindows[windowID] {
		timeBonus = genericTimeBonus
	}
	for _, sp := range species {
		if slices.Contains(s.rules.TimePreference(sp), windowID) {
			timeBonus += speciesTimeBonus
		}
	}

	windBonus := CoastWindBonus(coastFacing, agg.WindBearing, agg.WindSpeedKmh)

	score := math.Max(0, base-windPenalty-swellPenalty+timeBonus+windBonus)

	explanation := fmt.Sprintf("Wind %.0f km/h @ %.0f°, Swell %.1f m / %.1f s, Tide %s",
		agg.WindSpeedKmh, agg.WindBearing, agg.SwellHeightM, agg.SwellPeriodS, agg.TidePhase)

	factors := make([]string, 0, 4)
	if windBonus > 0 {
		factors = append(factors, "Offshore/cross wind bonus")
	}
	if timeBonus > 0 {
		factors = append(factors, common.Title(windowID)+" bite window bonus")
	}
	if windPenalty > 0 {
		factors = append(factors, "High wind penalty")
	}
	if swellPenalty > 0 {
		factors = append(factors, "Heavy swell penalty")
	}

	return ScoredWindow{
		WindowID:     windowID,
		Window:       agg.Window.Label,
		Score:        common.Round(score, 2),
		PerSpecies:   perSpecies,
		WindSpeedKmh: agg.WindSpeedKmh,
		WindBearing:  agg.WindBearing,
		SwellHeightM: agg.SwellHeightM,
		SwellPeriodS: agg.SwellPeriodS,
		SeaTempC:     agg.SeaTempC,
		TidePhase:    agg.TidePhase,
		CoastFacing:  coastFacing,
		Sources:      agg.Sources,
		Explanation:  explanation,
		Factors:      factors,
	}, nil
}
