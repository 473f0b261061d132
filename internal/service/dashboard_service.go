package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
)

// DashboardService serves the per-event and per-owner statistics views.
// Each owner gets one StatsScheduler and one OwnerAnalyticsTracker, created
// on first access and torn down after IdleTTL without access, or on Close.
type DashboardService interface {
	EventStats(ctx context.Context, eventID string) (model.EventStats, error)
	OwnerStats(ctx context.Context, actor model.Actor) (model.AggregateStats, error)
	RefreshOwnerStats(ctx context.Context, actor model.Actor) (model.AggregateStats, bool, error)
	OwnerSummary(ctx context.Context, actor model.Actor) (model.OwnerSummary, error)
	RefreshOwnerSummary(ctx context.Context, actor model.Actor) (model.OwnerSummary, error)
	EventsChanged(ctx context.Context)
	Close()
}

// DashboardOptions tune the owner schedulers and trackers.
type DashboardOptions struct {
	Debounce     time.Duration
	PollInterval time.Duration
	Ownership    Ownership
	// IdleTTL evicts owners not accessed for this long. Zero keeps them until Close.
	IdleTTL      time.Duration
}

type dashboardService struct {
	loader  *CatalogLoader
	events  repository.EventRepository
	opts    DashboardOptions
	now     func() time.Time
	janitor *cron.Cron
	wg      sync.WaitGroup

	mu         sync.Mutex
	closed     bool
	schedulers map[string]*StatsScheduler
	trackers   map[string]*OwnerAnalyticsTracker
	lastSeen   map[string]time.Time
}

// NewDashboardService constructs a DashboardService. A nil Ownership
// defaults to OwnedByID.
func NewDashboardService(events repository.EventRepository, activity repository.ActivityRepository, opts DashboardOptions) DashboardService {
	if opts.Ownership == nil {
		opts.Ownership = OwnedByID
	}
	s := &dashboardService{
		loader:     NewCatalogLoader(events, activity),
		events:     events,
		opts:       opts,
		now:        time.Now,
		janitor:    cron.New(),
		schedulers: make(map[string]*StatsScheduler),
		trackers:   make(map[string]*OwnerAnalyticsTracker),
		lastSeen:   make(map[string]time.Time),
	}
	if opts.IdleTTL > 0 {
		s.janitor.Schedule(cron.Every(opts.IdleTTL/2), cron.FuncJob(func() { s.evictIdle() }))
		s.janitor.Start()
	}
	return s
}

func (s *dashboardService) EventStats(ctx context.Context, eventID string) (model.EventStats, error) {
	catalog, err := s.loader.LoadEvent(ctx, eventID)
	if err != nil {
		return model.EventStats{}, err
	}
	stats, ok := CalculateEventStats(catalog, eventID)
	if !ok {
		return model.EventStats{}, ErrEventNotFound
	}
	return stats, nil
}

func (s *dashboardService) OwnerStats(ctx context.Context, actor model.Actor) (model.AggregateStats, error) {
	scheduler, err := s.scheduler(ctx, actor)
	if err != nil {
		return model.AggregateStats{}, err
	}
	return scheduler.Snapshot(), nil
}

// RefreshOwnerStats reports false when a recomputation was already running.
func (s *dashboardService) RefreshOwnerStats(ctx context.Context, actor model.Actor) (model.AggregateStats, bool, error) {
	scheduler, err := s.scheduler(ctx, actor)
	if err != nil {
		return model.AggregateStats{}, false, err
	}
	ran, err := scheduler.Refresh(ctx)
	if err != nil {
		return model.AggregateStats{}, ran, err
	}
	return scheduler.Snapshot(), ran, nil
}

func (s *dashboardService) OwnerSummary(ctx context.Context, actor model.Actor) (model.OwnerSummary, error) {
	tracker, err := s.tracker(ctx, actor)
	if err != nil {
		return model.OwnerSummary{}, err
	}
	analytics, loading := tracker.Current()
	return model.OwnerSummary{Analytics: analytics, IsLoading: loading}, nil
}

func (s *dashboardService) RefreshOwnerSummary(ctx context.Context, actor model.Actor) (model.OwnerSummary, error) {
	tracker, err := s.tracker(ctx, actor)
	if err != nil {
		return model.OwnerSummary{}, err
	}
	if err := tracker.Refresh(ctx); err != nil {
		return model.OwnerSummary{}, err
	}
	analytics, loading := tracker.Current()
	return model.OwnerSummary{Analytics: analytics, IsLoading: loading}, nil
}

// EventsChanged feeds the new event count to every owner. Schedulers debounce
// it; trackers recompute in the background.
func (s *dashboardService) EventsChanged(ctx context.Context) {
	count, err := s.events.Count(ctx)
	if err != nil {
		slog.Warn("count events failed", "error", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	schedulers := make(map[string]*StatsScheduler, len(s.schedulers))
	for id, scheduler := range s.schedulers {
		schedulers[id] = scheduler
	}
	trackers := make(map[string]*OwnerAnalyticsTracker, len(s.trackers))
	for id, tracker := range s.trackers {
		trackers[id] = tracker
	}
	s.wg.Add(len(trackers))
	s.mu.Unlock()

	for id, scheduler := range schedulers {
		scheduler.Observe(Inputs{ActorID: id, EventCount: count})
	}
	for id, tracker := range trackers {
		go func(id string, tracker *OwnerAnalyticsTracker) {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
			defer cancel()
			if err := tracker.Observe(ctx, Inputs{ActorID: id, EventCount: count}); err != nil {
				slog.Warn("summary recompute failed", "owner_id", id, "error", err)
			}
		}(id, tracker)
	}
}

// Close stops every owner and waits for background recomputes to finish.
func (s *dashboardService) Close() {
	s.mu.Lock()
	s.closed = true
	schedulers := s.schedulers
	trackers := s.trackers
	s.schedulers = map[string]*StatsScheduler{}
	s.trackers = map[string]*OwnerAnalyticsTracker{}
	s.lastSeen = map[string]time.Time{}
	s.mu.Unlock()

	<-s.janitor.Stop().Done()
	for _, scheduler := range schedulers {
		scheduler.Close()
	}
	for _, tracker := range trackers {
		tracker.Stop()
	}
	s.wg.Wait()
}

// evictIdle tears down owners whose last access is older than IdleTTL and
// returns how many were removed.
func (s *dashboardService) evictIdle() int {
	cutoff := s.now().Add(-s.opts.IdleTTL)

	s.mu.Lock()
	var (
		schedulers []*StatsScheduler
		trackers   []*OwnerAnalyticsTracker
	)
	for id, seen := range s.lastSeen {
		if seen.After(cutoff) {
			continue
		}
		if scheduler, ok := s.schedulers[id]; ok {
			schedulers = append(schedulers, scheduler)
			delete(s.schedulers, id)
		}
		if tracker, ok := s.trackers[id]; ok {
			trackers = append(trackers, tracker)
			delete(s.trackers, id)
		}
		delete(s.lastSeen, id)
	}
	s.mu.Unlock()

	for _, scheduler := range schedulers {
		scheduler.Close()
	}
	for _, tracker := range trackers {
		tracker.Stop()
	}
	evicted := max(len(schedulers), len(trackers))
	if evicted > 0 {
		slog.Debug("evicted idle owners", "count", evicted)
	}
	return evicted
}

func (s *dashboardService) scheduler(ctx context.Context, actor model.Actor) (*StatsScheduler, error) {
	if actor.ID == "" {
		return nil, &ValidationError{Message: "owner id is required"}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("dashboard service closed")
	}
	s.lastSeen[actor.ID] = s.now()
	scheduler, ok := s.schedulers[actor.ID]
	if !ok {
		scheduler = NewStatsScheduler(s.computeFor(actor), s.opts.Debounce)
		s.schedulers[actor.ID] = scheduler
	}
	s.mu.Unlock()

	if ok {
		return scheduler, nil
	}
	inputs, err := s.inputs(ctx, actor)
	if err != nil {
		s.mu.Lock()
		if s.schedulers[actor.ID] == scheduler {
			delete(s.schedulers, actor.ID)
		}
		s.mu.Unlock()
		scheduler.Close()
		return nil, err
	}
	if err := scheduler.Activate(ctx, inputs); err != nil {
		return nil, err
	}
	return scheduler, nil
}

func (s *dashboardService) tracker(ctx context.Context, actor model.Actor) (*OwnerAnalyticsTracker, error) {
	if actor.ID == "" {
		return nil, &ValidationError{Message: "owner id is required"}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("dashboard service closed")
	}
	s.lastSeen[actor.ID] = s.now()
	tracker, ok := s.trackers[actor.ID]
	if !ok {
		tracker = NewOwnerAnalyticsTracker(s.computeFor(actor), s.opts.PollInterval)
		s.trackers[actor.ID] = tracker
	}
	s.mu.Unlock()

	if ok {
		return tracker, nil
	}
	inputs, err := s.inputs(ctx, actor)
	if err != nil {
		s.mu.Lock()
		if s.trackers[actor.ID] == tracker {
			delete(s.trackers, actor.ID)
		}
		s.mu.Unlock()
		tracker.Stop()
		return nil, err
	}
	if err := tracker.Start(ctx, inputs); err != nil {
		return nil, err
	}
	return tracker, nil
}

func (s *dashboardService) inputs(ctx context.Context, actor model.Actor) (Inputs, error) {
	count, err := s.events.Count(ctx)
	if err != nil {
		return Inputs{}, fmt.Errorf("count events: %w", err)
	}
	return Inputs{ActorID: actor.ID, EventCount: count}, nil
}

func (s *dashboardService) computeFor(actor model.Actor) StatsComputeFunc {
	return func(ctx context.Context) (model.AggregateStats, error) {
		catalog, err := s.loader.LoadForActor(ctx, &actor, s.opts.Ownership)
		if err != nil {
			return model.AggregateStats{}, err
		}
		return CalculateAggregateStats(catalog, &actor, s.opts.Ownership, s.now().UTC()), nil
	}
}
