package mockservice

import (
	"context"

	"event-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type ActivityService struct {
	mock.Mock
}

func (m *ActivityService) BuildActivity(eventID string, req model.ActivityRequest) (model.Notification, error) {
	args := m.Called(eventID, req)
	return args.Get(0).(model.Notification), args.Error(1)
}

func (m *ActivityService) ProcessActivity(ctx context.Context, activity model.Notification) {
	m.Called(ctx, activity)
}

func (m *ActivityService) GetMetrics(ctx context.Context, eventID string, period model.Period) (model.EventMetrics, error) {
	args := m.Called(ctx, eventID, period)
	return args.Get(0).(model.EventMetrics), args.Error(1)
}

type EventService struct {
	mock.Mock
}

func (m *EventService) Create(ctx context.Context, req model.EventRequest) (model.Event, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *EventService) Get(ctx context.Context, id string) (model.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *EventService) Update(ctx context.Context, id string, req model.EventRequest) (model.Event, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Event), args.Error(1)
}

func (m *EventService) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EventService) RecordView(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EventService) Rate(ctx context.Context, id string, req model.RatingRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *EventService) Register(ctx context.Context, id string, req model.RegistrationRequest) (model.Registration, error) {
	args := m.Called(ctx, id, req)
	return args.Get(0).(model.Registration), args.Error(1)
}

func (m *EventService) CheckIn(ctx context.Context, eventID, registrationID string) error {
	return m.Called(ctx, eventID, registrationID).Error(0)
}

func (m *EventService) SendUpdate(ctx context.Context, eventID string, req model.EventUpdateRequest) (model.AttendeeUpdate, error) {
	args := m.Called(ctx, eventID, req)
	return args.Get(0).(model.AttendeeUpdate), args.Error(1)
}

type DashboardService struct {
	mock.Mock
}

func (m *DashboardService) EventStats(ctx context.Context, eventID string) (model.EventStats, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.EventStats), args.Error(1)
}

func (m *DashboardService) OwnerStats(ctx context.Context, actor model.Actor) (model.AggregateStats, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(model.AggregateStats), args.Error(1)
}

func (m *DashboardService) RefreshOwnerStats(ctx context.Context, actor model.Actor) (model.AggregateStats, bool, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(model.AggregateStats), args.Bool(1), args.Error(2)
}

func (m *DashboardService) OwnerSummary(ctx context.Context, actor model.Actor) (model.OwnerSummary, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(model.OwnerSummary), args.Error(1)
}

func (m *DashboardService) RefreshOwnerSummary(ctx context.Context, actor model.Actor) (model.OwnerSummary, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(model.OwnerSummary), args.Error(1)
}

func (m *DashboardService) EventsChanged(ctx context.Context) {
	m.Called(ctx)
}

func (m *DashboardService) Close() {
	m.Called()
}

type ReportService struct {
	mock.Mock
}

func (m *ReportService) EventAnalytics(ctx context.Context, eventID string) (model.EventAnalytics, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.EventAnalytics), args.Error(1)
}

func (m *ReportService) EventFinancials(ctx context.Context, eventID string) (model.EventFinancials, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.EventFinancials), args.Error(1)
}

func (m *ReportService) RegisteredUsers(ctx context.Context, eventID string) ([]model.RegisteredUser, error) {
	args := m.Called(ctx, eventID)
	users, _ := args.Get(0).([]model.RegisteredUser)
	return users, args.Error(1)
}

func (m *ReportService) Export(ctx context.Context, eventID string, kind model.ExportKind) ([]byte, error) {
	args := m.Called(ctx, eventID, kind)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
