package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/fishing-planner/internal/planner"
)

var base = time.Date(2025, 12, 1, 6, 0, 0, 0, time.UTC)

func snapshot(runID string, collected time.Time) planner.ConditionsSnapshot {
	return planner.ConditionsSnapshot{
		RunID:       runID,
		RegionID:    "western_cape",
		AreaID:      "false_bay",
		Date:        collected.Format("2006-01-02"),
		CollectedAt: collected,
	}
}

func TestGetLatestNotFound(t *testing.T) {
	s := NewMemoryStore(0, 0)
	_, err := s.GetLatest("western_cape", "false_bay")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAndGetLatest(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveSnapshot(snapshot("a", base))
	s.SaveSnapshot(snapshot("b", base.Add(time.Hour)))

	got, err := s.GetLatest("western_cape", "false_bay")
	require.NoError(t, err)
	assert.Equal(t, "b", got.RunID)

	_, err = s.GetLatest("western_cape", "overberg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i, id := range []string{"a", "b", "c"} {
		s.SaveSnapshot(snapshot(id, base.Add(time.Duration(i)*time.Hour)))
	}

	got, err := s.GetRange("western_cape", "false_bay", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].RunID)
	assert.Equal(t, "c", got[1].RunID)
}

func TestRetentionByAgeKeepsNewest(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return base.Add(10 * time.Hour) }

	s.SaveSnapshot(snapshot("old", base))
	s.SaveSnapshot(snapshot("older-but-newest", base.Add(time.Minute)))

	got, err := s.GetLatest("western_cape", "false_bay")
	require.NoError(t, err)
	assert.Equal(t, "older-but-newest", got.RunID)

	all, err := s.GetRange("western_cape", "false_bay", base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetRangeInclusiveBounds(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.SaveSnapshot(snapshot("a", base))
	s.SaveSnapshot(snapshot("b", base.Add(6*time.Hour)))
	s.SaveSnapshot(snapshot("c", base.Add(12*time.Hour)))

	got, err := s.GetRange("western_cape", "false_bay", base, base.Add(6*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RunID)
	assert.Equal(t, "b", got[1].RunID)

	_, err = s.GetRange("western_cape", "false_bay", base.Add(13*time.Hour), base.Add(14*time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}
