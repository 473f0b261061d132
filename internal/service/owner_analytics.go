package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"event-analytics-service/internal/metrics"
	"event-analytics-service/internal/model"
)

const pollTimeout = 30 * time.Second

// OwnerAnalyticsTracker keeps the dashboard summary cards of one actor
// current. It recomputes whenever its inputs change and, independently,
// on a fixed poll interval.
type OwnerAnalyticsTracker struct {
	compute  StatsComputeFunc
	interval time.Duration
	cron     *cron.Cron

	mu        sync.Mutex
	started   bool
	stopped   bool
	loaded    bool
	inFlight  int
	issued    uint64
	applied   uint64
	inputs    Inputs
	analytics model.OwnerAnalytics
}

// NewOwnerAnalyticsTracker builds a tracker polling every interval.
func NewOwnerAnalyticsTracker(compute StatsComputeFunc, interval time.Duration) *OwnerAnalyticsTracker {
	return &OwnerAnalyticsTracker{
		compute:   compute,
		interval:  interval,
		cron:      cron.New(),
		analytics: model.OwnerAnalytics{RecentActivity: []model.ActivityItem{}},
	}
}

// Start computes the first summary and begins polling. Later calls are no-ops.
func (t *OwnerAnalyticsTracker) Start(ctx context.Context, inputs Inputs) error {
	t.mu.Lock()
	if t.started || t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.started = true
	t.inputs = inputs
	t.cron.Schedule(cron.Every(t.interval), cron.FuncJob(t.poll))
	t.cron.Start()
	t.mu.Unlock()

	return t.recompute(ctx, "input")
}

// Observe recomputes when the inputs differ from the last seen ones.
func (t *OwnerAnalyticsTracker) Observe(ctx context.Context, inputs Inputs) error {
	t.mu.Lock()
	if !t.started || inputs == t.inputs {
		t.mu.Unlock()
		return nil
	}
	t.inputs = inputs
	t.mu.Unlock()

	return t.recompute(ctx, "input")
}

// Refresh forces a recomputation outside the poll cadence.
func (t *OwnerAnalyticsTracker) Refresh(ctx context.Context) error {
	return t.recompute(ctx, "refresh")
}

// Current returns the latest summary and whether one is being computed
// or none has been computed yet.
func (t *OwnerAnalyticsTracker) Current() (model.OwnerAnalytics, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	analytics := t.analytics
	analytics.RecentActivity = append([]model.ActivityItem(nil), t.analytics.RecentActivity...)
	return analytics, !t.loaded || t.inFlight > 0
}

// Stop cancels polling and waits for a running poll to finish. Later
// recomputes are no-ops.
func (t *OwnerAnalyticsTracker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()

	<-t.cron.Stop().Done()
}

func (t *OwnerAnalyticsTracker) poll() {
	ctx, cancel := context.WithTimeout(context.Background(), pollTimeout)
	defer cancel()

	if err := t.recompute(ctx, "poll"); err != nil {
		slog.Warn("summary poll failed", "error", err)
	}
}

// recompute stores its result only when no later-started recompute has
// stored one already.
func (t *OwnerAnalyticsTracker) recompute(ctx context.Context, trigger string) error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return nil
	}
	t.inFlight++
	t.issued++
	gen := t.issued
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.inFlight--
		t.mu.Unlock()
	}()

	stats, err := t.compute(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || gen < t.applied {
		return nil
	}
	t.analytics = toOwnerAnalytics(stats)
	t.applied = gen
	t.loaded = true
	metrics.StatsRecomputations.WithLabelValues(trigger).Inc()
	return nil
}
