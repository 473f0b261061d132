package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
	"event-analytics-service/internal/testdata/mockrepository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite

	events   *mockrepository.EventRepository
	activity *mockrepository.ActivityRepository
	loads    atomic.Int32

	service *dashboardService
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

func (s *DashboardServiceTestSuite) SetupTest() {
	s.events = &mockrepository.EventRepository{}
	s.activity = &mockrepository.ActivityRepository{}
	s.loads.Store(0)

	svc := NewDashboardService(s.events, s.activity, DashboardOptions{
		Debounce:     20 * time.Millisecond,
		PollInterval: time.Hour,
		IdleTTL:      time.Hour,
	})
	s.service = svc.(*dashboardService)
	s.service.now = func() time.Time { return baseTime }
}

func (s *DashboardServiceTestSuite) TearDownTest() {
	s.service.Close()
}

func (s *DashboardServiceTestSuite) stubStore() {
	other := model.Event{ID: "event-x", Creator: model.Creator{ID: "owner-2"}, Views: 7}
	s.events.On("FindAll", mock.Anything).Run(func(mock.Arguments) { s.loads.Add(1) }).Return([]model.Event{eventA(), other}, nil)
	s.activity.On("ListByEvent", mock.Anything, "event-a", recentFeedLimit).Return(paidRegistrations("event-a", "General", 5), nil)
	s.activity.On("ListRegistrations", mock.Anything, "event-a").Return(paidRegistrations("event-a", "General", 5), nil)
}

func (s *DashboardServiceTestSuite) TestEventStats() {
	event := eventA()
	s.events.On("FindByID", mock.Anything, "event-a").Return(&event, nil)
	s.activity.On("ListByEvent", mock.Anything, "event-a", recentFeedLimit).Return(paidRegistrations("event-a", "General", 5), nil)
	s.activity.On("ListRegistrations", mock.Anything, "event-a").Return(paidRegistrations("event-a", "General", 5), nil)

	stats, err := s.service.EventStats(context.Background(), "event-a")

	s.NoError(err)
	s.Equal(5, stats.TotalRegistrations)
	s.InDelta(5.0, stats.ConversionRate, 1e-9)
	s.InDelta(50.0, stats.Payments.TotalRevenue, 1e-9)
}

func (s *DashboardServiceTestSuite) TestEventStats_RegistrationsOlderThanFeedHead() {
	event := eventA()
	s.events.On("FindByID", mock.Anything, "event-a").Return(&event, nil)

	views := make([]model.Notification, 0, recentFeedLimit)
	for i := 0; i < recentFeedLimit; i++ {
		views = append(views, model.Notification{
			ID:        fmt.Sprintf("view-%d", i),
			EventID:   "event-a",
			Type:      model.NotificationView,
			CreatedAt: baseTime.Add(time.Hour + time.Duration(i)*time.Second),
		})
	}
	s.activity.On("ListByEvent", mock.Anything, "event-a", recentFeedLimit).Return(views, nil)
	s.activity.On("ListRegistrations", mock.Anything, "event-a").Return(paidRegistrations("event-a", "General", 5), nil)

	stats, err := s.service.EventStats(context.Background(), "event-a")

	s.Require().NoError(err)
	s.Equal(5, stats.TotalRegistrations)
	s.Equal(5, stats.Payments.Paid)
	s.InDelta(50.0, stats.Payments.TotalRevenue, 1e-9)
	s.Equal(5, stats.TicketStats[0].Sold)
	s.Require().Len(stats.RecentActivity, 10)
	s.Equal(model.NotificationView, stats.RecentActivity[0].Type)
}

func (s *DashboardServiceTestSuite) TestEventStats_Unknown() {
	s.events.On("FindByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, err := s.service.EventStats(context.Background(), "missing")
	s.ErrorIs(err, ErrEventNotFound)
}

func (s *DashboardServiceTestSuite) TestOwnerStats_ActivatesOnce() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(2, nil)
	actor := model.Actor{ID: "owner-1"}

	stats, err := s.service.OwnerStats(context.Background(), actor)
	s.Require().NoError(err)
	s.False(stats.IsLoading)
	s.Equal(1, stats.TotalEvents)
	s.Equal(100, stats.TotalViews)
	s.Equal(baseTime, stats.LastUpdated)

	_, err = s.service.OwnerStats(context.Background(), actor)
	s.Require().NoError(err)
	s.Equal(int32(1), s.loads.Load())
}

func (s *DashboardServiceTestSuite) TestOwnerStats_RequiresOwner() {
	_, err := s.service.OwnerStats(context.Background(), model.Actor{})
	s.IsType(&ValidationError{}, err)
}

func (s *DashboardServiceTestSuite) TestRefreshOwnerStats() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(2, nil)

	_, ran, err := s.service.RefreshOwnerStats(context.Background(), model.Actor{ID: "owner-1"})

	s.NoError(err)
	s.True(ran)
	s.Equal(int32(2), s.loads.Load())
}

func (s *DashboardServiceTestSuite) TestEventsChangedSchedulesRecompute() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(2, nil).Once()
	s.events.On("Count", mock.Anything).Return(3, nil)

	_, err := s.service.OwnerStats(context.Background(), model.Actor{ID: "owner-1"})
	s.Require().NoError(err)

	s.service.EventsChanged(context.Background())

	s.Eventually(func() bool { return s.loads.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func (s *DashboardServiceTestSuite) TestOwnerSummary() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(2, nil)

	summary, err := s.service.OwnerSummary(context.Background(), model.Actor{ID: "owner-1"})

	s.NoError(err)
	s.False(summary.IsLoading)
	s.Equal(5, summary.Analytics.TotalRegistrations)
	s.Equal(model.MonthlyGrowth{}, summary.Analytics.MonthlyGrowth)

	summary, err = s.service.RefreshOwnerSummary(context.Background(), model.Actor{ID: "owner-1"})
	s.NoError(err)
	s.Equal(int32(2), s.loads.Load())
}

func (s *DashboardServiceTestSuite) TestNameFallbackOwnership() {
	svc := NewDashboardService(s.events, s.activity, DashboardOptions{
		Debounce:     time.Hour,
		PollInterval: time.Hour,
		Ownership:    OwnedByIDOrName,
	})
	defer svc.Close()

	named := model.Event{ID: "event-n", Creator: model.Creator{ID: "legacy", Name: "Ada"}, Views: 20}
	s.events.On("FindAll", mock.Anything).Return([]model.Event{eventA(), named}, nil)
	s.events.On("Count", mock.Anything).Return(2, nil)
	s.activity.On("ListByEvent", mock.Anything, mock.Anything, recentFeedLimit).Return(nil, nil)
	s.activity.On("ListRegistrations", mock.Anything, mock.Anything).Return(nil, nil)

	stats, err := svc.OwnerStats(context.Background(), model.Actor{ID: "owner-1", Name: "Ada"})

	s.NoError(err)
	s.Equal(2, stats.TotalEvents)
	s.Equal(120, stats.TotalViews)
}

func (s *DashboardServiceTestSuite) TestClosedServiceRejects() {
	s.service.Close()

	_, err := s.service.OwnerStats(context.Background(), model.Actor{ID: "owner-1"})
	s.Error(err)
}

func (s *DashboardServiceTestSuite) TestOwnerStats_RecoversFromFailedCount() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(0, errors.New("transient")).Once()
	s.events.On("Count", mock.Anything).Return(2, nil)
	actor := model.Actor{ID: "owner-1"}

	_, err := s.service.OwnerStats(context.Background(), actor)
	s.Require().ErrorContains(err, "transient")

	stats, err := s.service.OwnerStats(context.Background(), actor)
	s.Require().NoError(err)
	s.False(stats.IsLoading)
	s.Equal(100, stats.TotalViews)

	stats, ran, err := s.service.RefreshOwnerStats(context.Background(), actor)
	s.Require().NoError(err)
	s.True(ran)
	s.False(stats.IsLoading)
}

func (s *DashboardServiceTestSuite) TestOwnerSummary_RecoversFromFailedCount() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(0, errors.New("transient")).Once()
	s.events.On("Count", mock.Anything).Return(2, nil)
	actor := model.Actor{ID: "owner-1"}

	_, err := s.service.OwnerSummary(context.Background(), actor)
	s.Require().ErrorContains(err, "transient")

	summary, err := s.service.OwnerSummary(context.Background(), actor)
	s.Require().NoError(err)
	s.False(summary.IsLoading)
	s.Equal(5, summary.Analytics.TotalRegistrations)
}

func (s *DashboardServiceTestSuite) TestEvictIdleOwners() {
	s.stubStore()
	s.events.On("Count", mock.Anything).Return(2, nil)
	now := baseTime
	s.service.now = func() time.Time { return now }

	_, err := s.service.OwnerStats(context.Background(), model.Actor{ID: "owner-1"})
	s.Require().NoError(err)
	_, err = s.service.OwnerSummary(context.Background(), model.Actor{ID: "owner-1"})
	s.Require().NoError(err)

	now = baseTime.Add(30 * time.Minute)
	_, err = s.service.OwnerSummary(context.Background(), model.Actor{ID: "owner-2"})
	s.Require().NoError(err)

	now = baseTime.Add(61 * time.Minute)
	s.Equal(1, s.service.evictIdle())

	s.service.mu.Lock()
	s.NotContains(s.service.schedulers, "owner-1")
	s.NotContains(s.service.trackers, "owner-1")
	s.Contains(s.service.trackers, "owner-2")
	s.service.mu.Unlock()

	loads := s.loads.Load()
	_, err = s.service.OwnerStats(context.Background(), model.Actor{ID: "owner-1"})
	s.Require().NoError(err)
	s.Equal(loads+1, s.loads.Load())
}

func (s *DashboardServiceTestSuite) TestCloseWaitsForBackgroundRecompute() {
	gate := make(chan struct{})
	entered := make(chan struct{})
	s.events.On("FindAll", mock.Anything).Run(func(mock.Arguments) {
		if s.loads.Add(1) == 2 {
			close(entered)
			<-gate
		}
	}).Return([]model.Event{eventA()}, nil)
	s.activity.On("ListByEvent", mock.Anything, "event-a", recentFeedLimit).Return(nil, nil)
	s.activity.On("ListRegistrations", mock.Anything, "event-a").Return(nil, nil)
	s.events.On("Count", mock.Anything).Return(1, nil).Once()
	s.events.On("Count", mock.Anything).Return(2, nil)

	_, err := s.service.OwnerSummary(context.Background(), model.Actor{ID: "owner-1"})
	s.Require().NoError(err)

	s.service.EventsChanged(context.Background())
	<-entered

	closed := make(chan struct{})
	go func() {
		s.service.Close()
		close(closed)
	}()
	s.Never(func() bool {
		select {
		case <-closed:
			return true
		default:
			return false
		}
	}, 100*time.Millisecond, 10*time.Millisecond)

	close(gate)
	s.Eventually(func() bool {
		select {
		case <-closed:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)

	s.service.EventsChanged(context.Background())
	s.Equal(int32(2), s.loads.Load())
}
