package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
)

// ChangeNotifier is told when the size of the event collection changes.
type ChangeNotifier interface {
	EventsChanged(ctx context.Context)
}

// EventService covers owner and attendee actions on the event store.
type EventService interface {
	Create(ctx context.Context, req model.EventRequest) (model.Event, error)
	Get(ctx context.Context, id string) (model.Event, error)
	Update(ctx context.Context, id string, req model.EventRequest) (model.Event, error)
	Cancel(ctx context.Context, id string) error
	RecordView(ctx context.Context, id string) error
	Rate(ctx context.Context, id string, req model.RatingRequest) error
	Register(ctx context.Context, id string, req model.RegistrationRequest) (model.Registration, error)
	CheckIn(ctx context.Context, eventID, registrationID string) error
	SendUpdate(ctx context.Context, eventID string, req model.EventUpdateRequest) (model.AttendeeUpdate, error)
}

type eventService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	activity      ActivityService
	changes       ChangeNotifier
	now           func() time.Time
}

// NewEventService constructs an EventService.
func NewEventService(events repository.EventRepository, registrations repository.RegistrationRepository, activity ActivityService, changes ChangeNotifier) EventService {
	return &eventService{
		events:        events,
		registrations: registrations,
		activity:      activity,
		changes:       changes,
		now:           time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, req model.EventRequest) (model.Event, error) {
	if req.Creator.ID == "" {
		return model.Event{}, &ValidationError{Message: "creator.id is required"}
	}
	if err := validateEventRequest(req); err != nil {
		return model.Event{}, err
	}

	status := req.Status
	if status == "" {
		status = model.EventStatusUpcoming
	}

	event := model.Event{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Creator:     req.Creator,
		Capacity:    req.Capacity,
		TicketTypes: req.TicketTypes,
		Ratings:     []model.Rating{},
		Status:      status,
		Date:        time.Unix(req.Date, 0).UTC(),
	}
	if event.TicketTypes == nil {
		event.TicketTypes = []model.TicketType{}
	}

	if err := s.events.Create(ctx, &event); err != nil {
		return model.Event{}, err
	}
	s.changes.EventsChanged(ctx)
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (model.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return model.Event{}, translateNotFound(err)
	}
	return *event, nil
}

func (s *eventService) Update(ctx context.Context, id string, req model.EventRequest) (model.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return model.Event{}, err
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return model.Event{}, translateNotFound(err)
	}

	event.Title = strings.TrimSpace(req.Title)
	event.Capacity = req.Capacity
	if req.TicketTypes != nil {
		event.TicketTypes = req.TicketTypes
	}
	if req.Status != "" {
		event.Status = req.Status
	}
	if req.Date != 0 {
		event.Date = time.Unix(req.Date, 0).UTC()
	}

	if err := s.events.Update(ctx, event); err != nil {
		return model.Event{}, translateNotFound(err)
	}
	return *event, nil
}

func (s *eventService) Cancel(ctx context.Context, id string) error {
	return translateNotFound(s.events.Cancel(ctx, id))
}

func (s *eventService) RecordView(ctx context.Context, id string) error {
	if err := s.events.IncrementViews(ctx, id); err != nil {
		return translateNotFound(err)
	}
	s.record(ctx, id, model.ActivityRequest{Type: model.NotificationView})
	return nil
}

func (s *eventService) Rate(ctx context.Context, id string, req model.RatingRequest) error {
	if req.Value < 1 || req.Value > 5 {
		return &ValidationError{Message: "rating must be between 1 and 5"}
	}

	rating := model.Rating{Value: req.Value, Comment: req.Comment, CreatedAt: s.now().UTC()}
	if err := s.events.AddRating(ctx, id, rating); err != nil {
		return translateNotFound(err)
	}
	s.record(ctx, id, model.ActivityRequest{Type: model.NotificationRating})
	return nil
}

func (s *eventService) Register(ctx context.Context, id string, req model.RegistrationRequest) (model.Registration, error) {
	if req.UserID == "" {
		return model.Registration{}, &ValidationError{Message: "user_id is required"}
	}
	if req.TicketType == "" {
		return model.Registration{}, &ValidationError{Message: "ticket_type is required"}
	}
	status := req.PaymentStatus
	if status == "" {
		status = model.PaymentPending
	}
	if !isPaymentStatus(status) {
		return model.Registration{}, &ValidationError{Message: "payment_status must be pending, paid or refunded"}
	}

	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		return model.Registration{}, translateNotFound(err)
	}
	if event.Status == model.EventStatusCancelled {
		return model.Registration{}, &ValidationError{Message: "event is cancelled"}
	}

	ticket, ok := findTicketType(event.TicketTypes, req.TicketType)
	if !ok {
		return model.Registration{}, &ValidationError{Message: fmt.Sprintf("unknown ticket type %q", req.TicketType)}
	}

	registration := model.Registration{
		ID:            uuid.NewString(),
		EventID:       id,
		UserID:        req.UserID,
		Name:          req.Name,
		Email:         req.Email,
		TicketType:    ticket.Name,
		PaymentStatus: status,
		Amount:        ticket.Price,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.registrations.Create(ctx, &registration); err != nil {
		return model.Registration{}, err
	}

	s.record(ctx, id, model.ActivityRequest{
		Type:   model.NotificationRegistration,
		UserID: req.UserID,
		Registration: &model.RegistrationPayload{
			RegistrationID: registration.ID,
			UserID:         req.UserID,
			TicketType:     ticket.Name,
			PaymentStatus:  status,
			Amount:         ticket.Price,
		},
	})
	return registration, nil
}

func (s *eventService) CheckIn(ctx context.Context, eventID, registrationID string) error {
	if registrationID == "" {
		return &ValidationError{Message: "registration_id is required"}
	}
	err := s.registrations.CheckIn(ctx, eventID, registrationID, s.now().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRegistrationNotFound
	}
	return err
}

func (s *eventService) SendUpdate(ctx context.Context, eventID string, req model.EventUpdateRequest) (model.AttendeeUpdate, error) {
	if strings.TrimSpace(req.Subject) == "" {
		return model.AttendeeUpdate{}, &ValidationError{Message: "subject is required"}
	}
	if strings.TrimSpace(req.Message) == "" {
		return model.AttendeeUpdate{}, &ValidationError{Message: "message is required"}
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return model.AttendeeUpdate{}, translateNotFound(err)
	}
	registrations, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return model.AttendeeUpdate{}, err
	}

	update := model.AttendeeUpdate{
		ID:         uuid.NewString(),
		EventID:    eventID,
		Subject:    req.Subject,
		Message:    req.Message,
		Recipients: len(registrations),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.registrations.RecordUpdate(ctx, &update); err != nil {
		return model.AttendeeUpdate{}, err
	}
	return update, nil
}

// record feeds an activity record built from a store mutation.
func (s *eventService) record(ctx context.Context, eventID string, req model.ActivityRequest) {
	activity, err := s.activity.BuildActivity(eventID, req)
	if err != nil {
		slog.Warn("skip activity record", "event_id", eventID, "type", req.Type, "error", err)
		return
	}
	s.activity.ProcessActivity(ctx, activity)
}

func validateEventRequest(req model.EventRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return &ValidationError{Message: "title is required"}
	}
	if req.Capacity < 0 {
		return &ValidationError{Message: "capacity cannot be negative"}
	}
	switch req.Status {
	case "", model.EventStatusActive, model.EventStatusUpcoming, model.EventStatusCancelled, model.EventStatusCompleted:
	default:
		return &ValidationError{Message: "unsupported status"}
	}
	seen := make(map[string]bool, len(req.TicketTypes))
	for _, t := range req.TicketTypes {
		if t.Name == "" {
			return &ValidationError{Message: "ticket type name is required"}
		}
		if seen[t.Name] {
			return &ValidationError{Message: fmt.Sprintf("duplicate ticket type %q", t.Name)}
		}
		seen[t.Name] = true
		if t.Price < 0 || t.Available < 0 {
			return &ValidationError{Message: "ticket price and availability cannot be negative"}
		}
	}
	return nil
}

func findTicketType(tickets []model.TicketType, name string) (model.TicketType, bool) {
	for _, t := range tickets {
		if t.Name == name {
			return t, true
		}
	}
	return model.TicketType{}, false
}

func translateNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}
