package model

import "time"

// ExportKind selects the dataset of an export.
type ExportKind string

const (
	ExportAttendees  ExportKind = "attendees"
	ExportFinancials ExportKind = "financials"
	ExportAnalytics  ExportKind = "analytics"
)

// Valid reports whether the kind is a known export.
func (k ExportKind) Valid() bool {
	switch k {
	case ExportAttendees, ExportFinancials, ExportAnalytics:
		return true
	default:
		return false
	}
}

// EventAnalytics is the server-computed analytics payload for one event.
type EventAnalytics struct {
	EventID            string        `json:"event_id"`
	TotalViews         int           `json:"total_views"`
	TotalRegistrations int           `json:"total_registrations"`
	ConversionRate     float64       `json:"conversion_rate"`
	AverageRating      float64       `json:"average_rating"`
	TotalRatings       int           `json:"total_ratings"`
	Revenue            float64       `json:"revenue"`
	CapacityUsed       float64       `json:"capacity_used"`
	TicketStats        []TicketStats `json:"ticket_stats"`
	RegistrationsByDay []DailyCount  `json:"registrations_by_day"`
}

// Transaction is one payment line of the financials report.
type Transaction struct {
	RegistrationID string        `json:"registration_id"`
	AttendeeName   string        `json:"attendee_name"`
	TicketType     string        `json:"ticket_type"`
	Amount         float64       `json:"amount"`
	Status         PaymentStatus `json:"status"`
	Date           time.Time     `json:"date"`
}

// EventFinancials is the revenue report of one event.
type EventFinancials struct {
	EventID        string        `json:"event_id"`
	Currency       string        `json:"currency"`
	GrossRevenue   float64       `json:"gross_revenue"`
	PendingRevenue float64       `json:"pending_revenue"`
	RefundedAmount float64       `json:"refunded_amount"`
	NetRevenue     float64       `json:"net_revenue"`
	Transactions   []Transaction `json:"transactions"`
}

// RegisteredUser is one attendee as listed to the event owner.
type RegisteredUser struct {
	RegistrationID string        `json:"registration_id"`
	UserID         string        `json:"user_id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	TicketType     string        `json:"ticket_type"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	RegisteredAt   time.Time     `json:"registered_at"`
	CheckedIn      bool          `json:"checked_in"`
}

// EventUpdateRequest is the payload for messaging attendees.
type EventUpdateRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CheckInRequest is the payload for checking an attendee in.
type CheckInRequest struct {
	RegistrationID string `json:"registration_id"`
}
