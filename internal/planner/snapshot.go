package planner

import (
	"time"

	"github.com/i474232898/fishing-planner/internal/reference"
)

// WindowConditions is one window of a collected conditions snapshot.
type WindowConditions struct {
	WindowSummary
	Score  float64                    `json:"score"`
	Labels map[string]reference.Label `json:"labels"`
}

// ConditionsSnapshot records one day's per-window conditions and species
// labels for an area, as captured by the collector.
type ConditionsSnapshot struct {
	RunID           string             `json:"run_id"`
	RegionID        string             `json:"region_id"`
	AreaID          string             `json:"area_id"`
	Date            string             `json:"date"`
	CollectedAt     time.Time          `json:"collected_at"`
	BaselineMissing bool               `json:"baseline_missing,omitempty"`
	Windows         []WindowConditions `json:"windows"`
}

// Key identifies the area the snapshot belongs to.
func (c ConditionsSnapshot) Key() string {
	return c.RegionID + "/" + c.AreaID
}

// SnapshotFromPlan condenses the first day of a plan into a snapshot with
// windows in catalog order.
func SnapshotFromPlan(result *PlanResult, runID string) ConditionsSnapshot {
	snap := ConditionsSnapshot{
		RunID:       runID,
		RegionID:    result.Region.ID,
		AreaID:      result.Area.ID,
		CollectedAt: result.GeneratedAt,
	}
	if len(result.Days) == 0 {
		return snap
	}
	day := result.Days[0]
	snap.Date = day.Date

	byWindow := make(map[string]ScoredWindow, len(day.Windows))
	for _, r := range result.Results {
		if r.Date == day.Date {
			byWindow[r.WindowID] = r
		}
	}

	for _, summary := range day.Windows {
		scored := byWindow[summary.WindowID]
		labels := make(map[string]reference.Label, len(scored.PerSpecies))
		for _, sp := range scored.PerSpecies {
			labels[sp.Species] = sp.Label
		}
		if scored.BaselineMissing {
			snap.BaselineMissing = true
		}
		snap.Windows = append(snap.Windows, WindowConditions{
			WindowSummary: summary,
			Score:         scored.Score,
			Labels:        labels,
		})
	}
	return snap
}
