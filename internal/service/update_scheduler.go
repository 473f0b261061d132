package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"event-analytics-service/internal/metrics"
	"event-analytics-service/internal/model"
)

// StatsComputeFunc produces a fresh aggregate snapshot.
type StatsComputeFunc func(ctx context.Context) (model.AggregateStats, error)

// Inputs are the tracked values whose change schedules a recomputation.
type Inputs struct {
	ActorID    string
	EventCount int
}

// SchedulerState is the observable phase of a StatsScheduler.
type SchedulerState int

const (
	StateIdle SchedulerState = iota
	StateScheduled
	StateRunning
)

func (s SchedulerState) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// debounceTimeout bounds a recomputation started by the timer.
const debounceTimeout = 30 * time.Second

// StatsScheduler owns one actor's aggregate snapshot. It computes once on
// activation, then recomputes after a quiet period following the last
// input change. At most one computation runs at a time.
type StatsScheduler struct {
	compute StatsComputeFunc
	quiet   time.Duration

	mu             sync.Mutex
	hasInitialLoad bool
	isUpdating     bool
	closed         bool
	inputs         Inputs
	timer          *time.Timer
	generation     uint64
	stats          model.AggregateStats
}

// NewStatsScheduler builds a scheduler whose snapshot starts zeroed and loading.
func NewStatsScheduler(compute StatsComputeFunc, quiet time.Duration) *StatsScheduler {
	stats := emptyAggregate()
	stats.IsLoading = true
	return &StatsScheduler{
		compute: compute,
		quiet:   quiet,
		stats:   stats,
	}
}

// Activate runs the initial computation. Only the first call has an effect.
func (s *StatsScheduler) Activate(ctx context.Context, inputs Inputs) error {
	s.mu.Lock()
	if s.hasInitialLoad || s.closed {
		s.mu.Unlock()
		return nil
	}
	s.inputs = inputs
	s.mu.Unlock()

	_, err := s.run(ctx, "initial", true)
	return err
}

// Observe records the current inputs. After the initial load a change
// (re)starts the quiet period; it reports whether a timer was armed.
func (s *StatsScheduler) Observe(inputs Inputs) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || inputs == s.inputs {
		return false
	}
	s.inputs = inputs
	if !s.hasInitialLoad {
		return false
	}

	if s.timer != nil {
		s.timer.Stop()
	}
	s.generation++
	gen := s.generation
	s.timer = time.AfterFunc(s.quiet, func() { s.fire(gen) })
	return true
}

// Update recomputes the snapshot unless a computation is already running,
// in which case it returns false without doing anything.
func (s *StatsScheduler) Update(ctx context.Context) (bool, error) {
	return s.run(ctx, "update", false)
}

// Refresh recomputes immediately, independent of any pending timer.
func (s *StatsScheduler) Refresh(ctx context.Context) (bool, error) {
	return s.run(ctx, "refresh", false)
}

// Close cancels a pending recomputation and disables the scheduler.
func (s *StatsScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Snapshot returns a copy of the current aggregate.
func (s *StatsScheduler) Snapshot() model.AggregateStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.EventStats = maps.Clone(s.stats.EventStats)
	stats.RecentActivity = append([]model.ActivityItem(nil), s.stats.RecentActivity...)
	return stats
}

// State reports idle, scheduled or running. Running wins over scheduled.
func (s *StatsScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.isUpdating:
		return StateRunning
	case s.timer != nil:
		return StateScheduled
	default:
		return StateIdle
	}
}

// HasInitialLoad reports whether the initial computation has completed.
func (s *StatsScheduler) HasInitialLoad() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasInitialLoad
}

func (s *StatsScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), debounceTimeout)
	defer cancel()

	if _, err := s.run(ctx, "debounce", false); err != nil {
		slog.Error("debounced stats update failed", "error", err)
	}
}

func (s *StatsScheduler) run(ctx context.Context, trigger string, initial bool) (ran bool, err error) {
	s.mu.Lock()
	if s.closed || (initial && s.hasInitialLoad) {
		s.mu.Unlock()
		return false, nil
	}
	if s.isUpdating {
		s.mu.Unlock()
		metrics.StatsSkipped.Inc()
		return false, nil
	}
	s.isUpdating = true
	s.mu.Unlock()
	ran = true

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("compute stats: panic: %v", r)
		}

		s.mu.Lock()
		s.isUpdating = false
		if initial {
			s.hasInitialLoad = true
			s.stats.IsLoading = false
		}
		s.mu.Unlock()
	}()

	stats, err := s.compute(ctx)
	if err != nil {
		return true, fmt.Errorf("compute stats: %w", err)
	}

	s.mu.Lock()
	if initial {
		stats.IsLoading = false
	} else {
		stats.IsLoading = !s.hasInitialLoad
	}
	s.stats = stats
	s.mu.Unlock()

	metrics.StatsRecomputations.WithLabelValues(trigger).Inc()
	metrics.StatsDuration.Observe(time.Since(start).Seconds())
	return true, nil
}
