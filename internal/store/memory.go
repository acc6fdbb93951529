package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/fishing-planner/internal/planner"
)

// ErrNotFound means the collector has nothing for the area, or nothing in the
// requested range.
var ErrNotFound = errors.New("no conditions data for area")

// SnapshotHistory is one area's collector output, oldest first.
type SnapshotHistory struct {
	Snapshots []planner.ConditionsSnapshot
}

// MemoryStore keeps recent collector runs per area for the conditions
// endpoints. Plans are always computed live and never read from it.
type MemoryStore struct {
	mu sync.RWMutex

	// Keyed by ConditionsSnapshot.Key.
	data map[string]*SnapshotHistory

	maxHistory int           // runs kept per area, 0 keeps all
	maxAge     time.Duration // oldest CollectedAt kept, 0 keeps all

	now func() time.Time
}

// NewMemoryStore bounds each area's history by run count and by age.
// Non-positive limits disable that bound.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*SnapshotHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveSnapshot records a collector run. Snapshots are expected in collection
// order; the newest run survives age pruning even when it is already stale.
func (s *MemoryStore) SaveSnapshot(snapshot planner.ConditionsSnapshot) {
	key := snapshot.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &SnapshotHistory{}
		s.data[key] = history
	}

	history.Snapshots = append(history.Snapshots, snapshot)

	// Drop the oldest runs past the count bound.
	if s.maxHistory > 0 && len(history.Snapshots) > s.maxHistory {
		over := len(history.Snapshots) - s.maxHistory
		history.Snapshots = history.Snapshots[over:]
	}

	// Drop stale runs, stopping before the newest.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Snapshots)-1; i++ {
			if !history.Snapshots[i].CollectedAt.Before(cutoff) {
				break
			}
		}
		history.Snapshots = history.Snapshots[i:]
	}
}

// GetLatest returns the area's last collector run.
func (s *MemoryStore) GetLatest(regionID, areaID string) (planner.ConditionsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[areaKey(regionID, areaID)]
	if !ok || len(history.Snapshots) == 0 {
		return planner.ConditionsSnapshot{}, ErrNotFound
	}
	return history.Snapshots[len(history.Snapshots)-1], nil
}

// GetRange returns the area's runs with CollectedAt in [from, to], oldest first.
func (s *MemoryStore) GetRange(regionID, areaID string, from, to time.Time) ([]planner.ConditionsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[areaKey(regionID, areaID)]
	if !ok || len(history.Snapshots) == 0 {
		return nil, ErrNotFound
	}

	var result []planner.ConditionsSnapshot
	for _, snap := range history.Snapshots {
		if !snap.CollectedAt.Before(from) && !snap.CollectedAt.After(to) {
			result = append(result, snap)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

func areaKey(regionID, areaID string) string {
	return planner.ConditionsSnapshot{RegionID: regionID, AreaID: areaID}.Key()
}
