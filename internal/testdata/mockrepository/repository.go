package mockrepository

import (
	"context"
	"time"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type ActivityRepository struct {
	mock.Mock
}

var _ repository.ActivityRepository = &ActivityRepository{}

func (m *ActivityRepository) Create(ctx context.Context, activity model.Notification) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *ActivityRepository) CreateBatch(ctx context.Context, activities []model.Notification) error {
	args := m.Called(ctx, activities)
	return args.Error(0)
}

func (m *ActivityRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, eventID, limit)
	feed, _ := args.Get(0).([]model.Notification)
	return feed, args.Error(1)
}

func (m *ActivityRepository) ListRegistrations(ctx context.Context, eventID string) ([]model.Notification, error) {
	args := m.Called(ctx, eventID)
	registrations, _ := args.Get(0).([]model.Notification)
	return registrations, args.Error(1)
}

func (m *ActivityRepository) FetchDailyCounts(ctx context.Context, filter model.MetricsFilter) ([]model.DailyCount, error) {
	args := m.Called(ctx, filter)
	counts, _ := args.Get(0).([]model.DailyCount)
	return counts, args.Error(1)
}

type EventRepository struct {
	mock.Mock
}

var _ repository.EventRepository = &EventRepository{}

func (m *EventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	event, _ := args.Get(0).(*model.Event)
	return event, args.Error(1)
}

func (m *EventRepository) FindAll(ctx context.Context) ([]model.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]model.Event)
	return events, args.Error(1)
}

func (m *EventRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *EventRepository) Update(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *EventRepository) Cancel(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EventRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *EventRepository) AddRating(ctx context.Context, id string, rating model.Rating) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

type RegistrationRepository struct {
	mock.Mock
}

var _ repository.RegistrationRepository = &RegistrationRepository{}

func (m *RegistrationRepository) Create(ctx context.Context, registration *model.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	args := m.Called(ctx, eventID)
	registrations, _ := args.Get(0).([]model.Registration)
	return registrations, args.Error(1)
}

func (m *RegistrationRepository) CheckIn(ctx context.Context, eventID, registrationID string, at time.Time) error {
	args := m.Called(ctx, eventID, registrationID, at)
	return args.Error(0)
}

func (m *RegistrationRepository) RecordUpdate(ctx context.Context, update *model.AttendeeUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}
