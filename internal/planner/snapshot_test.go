package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/fishing-planner/internal/marine"
	"github.com/i474232898/fishing-planner/internal/reference"
)

func TestSnapshotFromPlan(t *testing.T) {
	svc := newTestService(t, &fakeBuilder{build: func(date time.Time) (marine.Bundle, error) {
		return idealDawn(date), nil
	}})

	result, err := svc.Plan(context.Background(), PlanRequest{
		RegionID: "western_cape", AreaID: "overberg", StartDate: "2025-12-01", EndDate: "2025-12-01",
	})
	require.NoError(t, err)

	snap := SnapshotFromPlan(result, "run-1")
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, "western_cape/overberg", snap.Key())
	assert.Equal(t, "2025-12-01", snap.Date)
	assert.Equal(t, fixedNow, snap.CollectedAt)
	assert.False(t, snap.BaselineMissing)

	require.Len(t, snap.Windows, len(marine.Windows))
	for i, w := range marine.Windows {
		assert.Equal(t, w.ID, snap.Windows[i].WindowID)
	}
	dawn := snap.Windows[0]
	assert.Equal(t, reference.LabelIdeal, dawn.Labels["kob"])
	assert.Equal(t, reference.LabelIdeal, dawn.Labels["shad"])
	assert.Equal(t, reference.LabelPoor, snap.Windows[1].Labels["shad"])
	assert.Equal(t, result.Results[0].Score, dawn.Score)
}

func TestSnapshotFromEmptyPlan(t *testing.T) {
	snap := SnapshotFromPlan(&PlanResult{
		Region: reference.Region{ID: "western_cape"},
		Area:   reference.Area{ID: "overberg"},
	}, "run-2")
	assert.Equal(t, "western_cape/overberg", snap.Key())
	assert.Empty(t, snap.Windows)
}
