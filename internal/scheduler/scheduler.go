package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/i474232898/fishing-planner/internal/planner"
)

// AreaRef names a region/area pair to collect conditions for.
type AreaRef struct {
	RegionID string
	AreaID   string
}

// Planner is the subset of planner.Service the collector needs.
type Planner interface {
	Plan(ctx context.Context, req planner.PlanRequest) (*planner.PlanResult, error)
	Today() time.Time
}

// SnapshotSaver persists collected snapshots.
type SnapshotSaver interface {
	SaveSnapshot(snapshot planner.ConditionsSnapshot)
}

// Scheduler periodically collects today's window conditions and species labels
// for the configured areas.
type Scheduler struct {
	scheduler *gocron.Scheduler
	planner   Planner
	store     SnapshotSaver
	areas     []AreaRef
	interval  time.Duration
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(areas []AreaRef, interval time.Duration, p Planner, store SnapshotSaver, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		planner:   p,
		store:     store,
		areas:     areas,
		interval:  interval,
		timeout:   time.Minute,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.areas) == 0 {
		s.logger.Info("scheduler: no areas configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 360
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce collects a snapshot for every configured area concurrently.
// Failures are logged per area and do not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runID := uuid.NewString()
	today := s.planner.Today().Format("2006-01-02")
	s.logger.InfoContext(ctx, "scheduler: collecting conditions", "run_id", runID, "areas", len(s.areas), "date", today)

	var wg sync.WaitGroup
	for _, area := range s.areas {
		wg.Add(1)
		go func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			result, err := s.planner.Plan(callCtx, planner.PlanRequest{
				RegionID:  area.RegionID,
				AreaID:    area.AreaID,
				StartDate: today,
				EndDate:   today,
			})
			if err != nil {
				s.logger.ErrorContext(ctx, "scheduler: collection failed",
					"run_id", runID,
					"region", area.RegionID,
					"area", area.AreaID,
					"error", err,
				)
				return
			}
			s.store.SaveSnapshot(planner.SnapshotFromPlan(result, runID))
		}()
	}
	wg.Wait()
	s.logger.InfoContext(ctx, "scheduler: completed collection", "run_id", runID)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
