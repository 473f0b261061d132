package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"event-analytics-service/internal/model"

	"github.com/stretchr/testify/require"
)

func countingCompute(calls *atomic.Int32) StatsComputeFunc {
	return func(ctx context.Context) (model.AggregateStats, error) {
		n := calls.Add(1)
		stats := emptyAggregate()
		stats.TotalViews = int(n) * 10
		stats.EventStats["event-a"] = model.EventStats{EventID: "event-a"}
		return stats, nil
	}
}

func TestOwnerAnalyticsTracker_StartComputes(t *testing.T) {
	var calls atomic.Int32
	tracker := NewOwnerAnalyticsTracker(countingCompute(&calls), time.Hour)
	defer tracker.Stop()

	_, loading := tracker.Current()
	require.True(t, loading)

	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1", EventCount: 1}))
	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1", EventCount: 1}))

	analytics, loading := tracker.Current()
	require.False(t, loading)
	require.Equal(t, 10, analytics.TotalViews)
	require.Equal(t, model.MonthlyGrowth{}, analytics.MonthlyGrowth)
	require.Equal(t, int32(1), calls.Load())
}

func TestOwnerAnalyticsTracker_ObserveRecomputesOnChange(t *testing.T) {
	var calls atomic.Int32
	tracker := NewOwnerAnalyticsTracker(countingCompute(&calls), time.Hour)
	defer tracker.Stop()
	inputs := Inputs{ActorID: "owner-1", EventCount: 1}

	require.NoError(t, tracker.Observe(context.Background(), inputs))
	require.Zero(t, calls.Load())

	require.NoError(t, tracker.Start(context.Background(), inputs))
	require.NoError(t, tracker.Observe(context.Background(), inputs))
	require.Equal(t, int32(1), calls.Load())

	require.NoError(t, tracker.Observe(context.Background(), Inputs{ActorID: "owner-1", EventCount: 2}))
	require.Equal(t, int32(2), calls.Load())

	analytics, _ := tracker.Current()
	require.Equal(t, 20, analytics.TotalViews)
}

func TestOwnerAnalyticsTracker_Refresh(t *testing.T) {
	var calls atomic.Int32
	tracker := NewOwnerAnalyticsTracker(countingCompute(&calls), time.Hour)
	defer tracker.Stop()

	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1"}))
	require.NoError(t, tracker.Refresh(context.Background()))
	require.Equal(t, int32(2), calls.Load())
}

func TestOwnerAnalyticsTracker_PollsOnInterval(t *testing.T) {
	var calls atomic.Int32
	tracker := NewOwnerAnalyticsTracker(countingCompute(&calls), time.Second)

	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1"}))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 20*time.Millisecond)

	tracker.Stop()
	stopped := calls.Load()
	require.Never(t, func() bool { return calls.Load() > stopped }, 1500*time.Millisecond, 50*time.Millisecond)
}

func TestOwnerAnalyticsTracker_LoadingWhileComputing(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	compute := func(ctx context.Context) (model.AggregateStats, error) {
		if calls.Add(1) > 1 {
			started <- struct{}{}
			<-release
		}
		return emptyAggregate(), nil
	}
	tracker := NewOwnerAnalyticsTracker(compute, time.Hour)
	defer tracker.Stop()
	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1"}))

	done := make(chan error)
	go func() { done <- tracker.Refresh(context.Background()) }()
	<-started

	_, loading := tracker.Current()
	require.True(t, loading)

	close(release)
	require.NoError(t, <-done)
	_, loading = tracker.Current()
	require.False(t, loading)
}

func TestOwnerAnalyticsTracker_ErrorKeepsLoading(t *testing.T) {
	tracker := NewOwnerAnalyticsTracker(func(ctx context.Context) (model.AggregateStats, error) {
		return model.AggregateStats{}, errors.New("store unavailable")
	}, time.Hour)
	defer tracker.Stop()

	require.Error(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1"}))

	analytics, loading := tracker.Current()
	require.True(t, loading)
	require.Empty(t, analytics.RecentActivity)
}

func TestOwnerAnalyticsTracker_StaleResultDoesNotOverwrite(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	slowStarted := make(chan struct{})
	compute := func(ctx context.Context) (model.AggregateStats, error) {
		n := calls.Add(1)
		if n == 2 {
			close(slowStarted)
			<-release
		}
		stats := emptyAggregate()
		stats.TotalViews = int(n)
		return stats, nil
	}
	tracker := NewOwnerAnalyticsTracker(compute, time.Hour)
	defer tracker.Stop()
	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1", EventCount: 1}))

	slow := make(chan error)
	go func() { slow <- tracker.Refresh(context.Background()) }()
	<-slowStarted

	require.NoError(t, tracker.Observe(context.Background(), Inputs{ActorID: "owner-1", EventCount: 2}))
	analytics, _ := tracker.Current()
	require.Equal(t, 3, analytics.TotalViews)

	close(release)
	require.NoError(t, <-slow)

	analytics, loading := tracker.Current()
	require.False(t, loading)
	require.Equal(t, 3, analytics.TotalViews)
}

func TestOwnerAnalyticsTracker_StoppedIgnoresRecomputes(t *testing.T) {
	var calls atomic.Int32
	tracker := NewOwnerAnalyticsTracker(countingCompute(&calls), time.Hour)
	require.NoError(t, tracker.Start(context.Background(), Inputs{ActorID: "owner-1", EventCount: 1}))

	tracker.Stop()

	require.NoError(t, tracker.Refresh(context.Background()))
	require.NoError(t, tracker.Observe(context.Background(), Inputs{ActorID: "owner-1", EventCount: 2}))
	require.Equal(t, int32(1), calls.Load())
}
