package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
)

const (
	reportCurrency = "USD"
	reportDays     = 30
	exportDays     = 90
)

// ReportService backs the owner-facing analytics, financials, attendee and
// export endpoints that the remote analytics client talks to.
type ReportService interface {
	EventAnalytics(ctx context.Context, eventID string) (model.EventAnalytics, error)
	EventFinancials(ctx context.Context, eventID string) (model.EventFinancials, error)
	RegisteredUsers(ctx context.Context, eventID string) ([]model.RegisteredUser, error)
	Export(ctx context.Context, eventID string, kind model.ExportKind) ([]byte, error)
}

type reportService struct {
	loader        *CatalogLoader
	events        repository.EventRepository
	activity      repository.ActivityRepository
	registrations repository.RegistrationRepository
	now           func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(events repository.EventRepository, activity repository.ActivityRepository, registrations repository.RegistrationRepository) ReportService {
	return &reportService{
		loader:        NewCatalogLoader(events, activity),
		events:        events,
		activity:      activity,
		registrations: registrations,
		now:           time.Now,
	}
}

func (s *reportService) EventAnalytics(ctx context.Context, eventID string) (model.EventAnalytics, error) {
	catalog, err := s.loader.LoadEvent(ctx, eventID)
	if err != nil {
		return model.EventAnalytics{}, err
	}
	stats, ok := CalculateEventStats(catalog, eventID)
	if !ok {
		return model.EventAnalytics{}, ErrEventNotFound
	}
	event, _ := catalog.EventByID(eventID)

	daily, err := s.dailyCounts(ctx, eventID, reportDays)
	if err != nil {
		return model.EventAnalytics{}, err
	}
	byDay := make([]model.DailyCount, 0, len(daily))
	for _, c := range daily {
		if c.Type == model.NotificationRegistration {
			byDay = append(byDay, c)
		}
	}

	var capacityUsed float64
	if event.Capacity > 0 {
		capacityUsed = float64(stats.TotalRegistrations) / float64(event.Capacity) * 100
	}

	return model.EventAnalytics{
		EventID:            eventID,
		TotalViews:         stats.TotalViews,
		TotalRegistrations: stats.TotalRegistrations,
		ConversionRate:     stats.ConversionRate,
		AverageRating:      stats.AverageRating,
		TotalRatings:       len(event.Ratings),
		Revenue:            stats.Payments.TotalRevenue,
		CapacityUsed:       capacityUsed,
		TicketStats:        stats.TicketStats,
		RegistrationsByDay: byDay,
	}, nil
}

// EventFinancials sums registration amounts per payment status. Gross
// includes refunded payments; net excludes them.
func (s *reportService) EventFinancials(ctx context.Context, eventID string) (model.EventFinancials, error) {
	registrations, err := s.eventRegistrations(ctx, eventID)
	if err != nil {
		return model.EventFinancials{}, err
	}

	var paid, pending, refunded decimal.Decimal
	transactions := make([]model.Transaction, 0, len(registrations))
	for _, r := range registrations {
		amount := decimal.NewFromFloat(r.Amount)
		switch r.PaymentStatus {
		case model.PaymentPaid:
			paid = paid.Add(amount)
		case model.PaymentPending:
			pending = pending.Add(amount)
		case model.PaymentRefunded:
			refunded = refunded.Add(amount)
		}
		transactions = append(transactions, model.Transaction{
			RegistrationID: r.ID,
			AttendeeName:   r.Name,
			TicketType:     r.TicketType,
			Amount:         r.Amount,
			Status:         r.PaymentStatus,
			Date:           r.CreatedAt,
		})
	}

	gross := paid.Add(refunded)
	return model.EventFinancials{
		EventID:        eventID,
		Currency:       reportCurrency,
		GrossRevenue:   gross.InexactFloat64(),
		PendingRevenue: pending.InexactFloat64(),
		RefundedAmount: refunded.InexactFloat64(),
		NetRevenue:     gross.Sub(refunded).InexactFloat64(),
		Transactions:   transactions,
	}, nil
}

func (s *reportService) RegisteredUsers(ctx context.Context, eventID string) ([]model.RegisteredUser, error) {
	registrations, err := s.eventRegistrations(ctx, eventID)
	if err != nil {
		return nil, err
	}
	users := make([]model.RegisteredUser, 0, len(registrations))
	for _, r := range registrations {
		users = append(users, model.RegisteredUser{
			RegistrationID: r.ID,
			UserID:         r.UserID,
			Name:           r.Name,
			Email:          r.Email,
			TicketType:     r.TicketType,
			PaymentStatus:  r.PaymentStatus,
			RegisteredAt:   r.CreatedAt,
			CheckedIn:      r.CheckedIn,
		})
	}
	return users, nil
}

// Export renders the requested dataset as CSV.
func (s *reportService) Export(ctx context.Context, eventID string, kind model.ExportKind) ([]byte, error) {
	if kind == "" {
		kind = model.ExportAttendees
	}
	if !kind.Valid() {
		return nil, &ValidationError{Message: "type must be one of attendees, financials, analytics"}
	}

	var rows [][]string
	switch kind {
	case model.ExportAttendees:
		users, err := s.RegisteredUsers(ctx, eventID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"registration_id", "name", "email", "ticket_type", "payment_status", "registered_at", "checked_in"})
		for _, u := range users {
			rows = append(rows, []string{
				u.RegistrationID, u.Name, u.Email, u.TicketType, string(u.PaymentStatus),
				u.RegisteredAt.UTC().Format(time.RFC3339), strconv.FormatBool(u.CheckedIn),
			})
		}
	case model.ExportFinancials:
		financials, err := s.EventFinancials(ctx, eventID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"registration_id", "attendee_name", "ticket_type", "amount", "status", "date"})
		for _, t := range financials.Transactions {
			rows = append(rows, []string{
				t.RegistrationID, t.AttendeeName, t.TicketType,
				decimal.NewFromFloat(t.Amount).StringFixed(2), string(t.Status),
				t.Date.UTC().Format(time.RFC3339),
			})
		}
	case model.ExportAnalytics:
		if _, err := s.events.FindByID(ctx, eventID); err != nil {
			return nil, translateNotFound(err)
		}
		counts, err := s.dailyCounts(ctx, eventID, exportDays)
		if err != nil {
			return nil, err
		}
		rows = append(rows, []string{"day", "type", "count"})
		for _, c := range counts {
			rows = append(rows, []string{c.Day, string(c.Type), strconv.FormatUint(c.Count, 10)})
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *reportService) eventRegistrations(ctx context.Context, eventID string) ([]model.Registration, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return nil, translateNotFound(err)
	}
	return s.registrations.ListByEvent(ctx, eventID)
}

func (s *reportService) dailyCounts(ctx context.Context, eventID string, days int) ([]model.DailyCount, error) {
	to := s.now().UTC()
	from := to.Add(-time.Duration(days) * 24 * time.Hour)
	return s.activity.FetchDailyCounts(ctx, model.MetricsFilter{EventID: eventID, From: from, To: to})
}
