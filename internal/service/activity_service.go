package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"event-analytics-service/internal/metrics"
	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrEventNotFound is returned when an event id does not resolve.
var ErrEventNotFound = errors.New("event not found")

// ErrRegistrationNotFound is returned when a registration id does not resolve.
var ErrRegistrationNotFound = errors.New("registration not found")

// ActivityService validates, ingests and summarises notification feed records.
type ActivityService interface {
	BuildActivity(eventID string, req model.ActivityRequest) (model.Notification, error)
	ProcessActivity(ctx context.Context, activity model.Notification)
	GetMetrics(ctx context.Context, eventID string, period model.Period) (model.EventMetrics, error)
}

type activityService struct {
	repo            repository.ActivityRepository
	worker          BatchActivityWorker
	now             func() time.Time
	futureTolerance time.Duration
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo repository.ActivityRepository, worker BatchActivityWorker, futureTolerance time.Duration) ActivityService {
	return &activityService{
		repo:            repo,
		worker:          worker,
		now:             time.Now,
		futureTolerance: futureTolerance,
	}
}

// BuildActivity validates and constructs a Notification from an incoming request.
func (s *activityService) BuildActivity(eventID string, req model.ActivityRequest) (model.Notification, error) {
	if eventID == "" {
		return model.Notification{}, &ValidationError{Message: "event id is required"}
	}

	switch req.Type {
	case model.NotificationView, model.NotificationRating:
	case model.NotificationRegistration:
		if req.Registration == nil || req.Registration.TicketType == "" {
			return model.Notification{}, &ValidationError{Message: "registration.ticket_type is required"}
		}
		if !isPaymentStatus(req.Registration.PaymentStatus) {
			return model.Notification{}, &ValidationError{Message: "registration.payment_status must be pending, paid or refunded"}
		}
	case "":
		return model.Notification{}, &ValidationError{Message: "type is required"}
	default:
		return model.Notification{}, &ValidationError{Message: "unsupported type"}
	}

	ts := s.now().UTC()
	if req.Timestamp != 0 {
		ts = time.Unix(req.Timestamp, 0).UTC()
		if err := ValidateTimestamp(ts, s.now(), s.futureTolerance); err != nil {
			return model.Notification{}, &ValidationError{Message: err.Error()}
		}
	}

	activity := model.Notification{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Type:      req.Type,
		UserID:    req.UserID,
		CreatedAt: ts,
		Metadata:  req.Metadata,
	}
	if req.Type == model.NotificationRegistration {
		payload := *req.Registration
		if payload.UserID == "" {
			payload.UserID = req.UserID
		}
		activity.Registration = &payload
	}
	return activity, nil
}

// ProcessActivity hands a record to the batch worker.
func (s *activityService) ProcessActivity(ctx context.Context, activity model.Notification) {
	s.worker.Enqueue(activity)
	metrics.ActivityIngested.WithLabelValues(string(activity.Type)).Inc()
}

// GetMetrics validates the period and returns per-day activity counts.
func (s *activityService) GetMetrics(ctx context.Context, eventID string, period model.Period) (model.EventMetrics, error) {
	if eventID == "" {
		return model.EventMetrics{}, &ValidationError{Message: "event id is required"}
	}
	if period == "" {
		period = model.Period30Days
	}
	days := period.Days()
	if days == 0 {
		return model.EventMetrics{}, &ValidationError{Message: "period must be one of 7d, 30d, 90d"}
	}

	to := s.now().UTC()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)

	counts, err := s.repo.FetchDailyCounts(ctx, model.MetricsFilter{EventID: eventID, From: from, To: to})
	if err != nil {
		return model.EventMetrics{}, err
	}

	resp := model.EventMetrics{
		EventID:       eventID,
		Period:        period,
		Start:         from.Format(time.RFC3339),
		End:           to.Format(time.RFC3339),
		Views:         []model.DailyCount{},
		Registrations: []model.DailyCount{},
		Ratings:       []model.DailyCount{},
	}
	for _, c := range counts {
		switch c.Type {
		case model.NotificationView:
			resp.Views = append(resp.Views, c)
			resp.TotalViews += c.Count
		case model.NotificationRegistration:
			resp.Registrations = append(resp.Registrations, c)
			resp.TotalSignups += c.Count
		case model.NotificationRating:
			resp.Ratings = append(resp.Ratings, c)
		}
	}
	return resp, nil
}

// ValidateTimestamp ensures timestamps are not too far in the future.
func ValidateTimestamp(ts time.Time, now time.Time, tolerance time.Duration) error {
	if tolerance <= 0 {
		return nil
	}
	if ts.After(now.Add(tolerance)) {
		return errors.New("timestamp cannot be in the future")
	}
	return nil
}

func isPaymentStatus(status model.PaymentStatus) bool {
	switch status {
	case model.PaymentPending, model.PaymentPaid, model.PaymentRefunded:
		return true
	default:
		return false
	}
}
