package model

import "time"

// NotificationType tags an activity record.
type NotificationType string

const (
	NotificationView         NotificationType = "view"
	NotificationRegistration NotificationType = "registration"
	NotificationRating       NotificationType = "rating"
)

// PaymentStatus is the payment state of a registration.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// RegistrationPayload is attached to registration notifications.
type RegistrationPayload struct {
	RegistrationID string        `json:"registration_id,omitempty"`
	UserID         string        `json:"user_id,omitempty"`
	TicketType     string        `json:"ticket_type"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	Amount         float64       `json:"amount"`
}

// Notification is an immutable activity record of the notification feed.
type Notification struct {
	ID           string               `json:"id"`
	EventID      string               `json:"event_id"`
	Type         NotificationType     `json:"type"`
	UserID       string               `json:"user_id,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	Registration *RegistrationPayload `json:"registration,omitempty"`
	Metadata     map[string]any       `json:"metadata,omitempty"`
}

// ActivityRequest represents an incoming activity payload.
type ActivityRequest struct {
	Type         NotificationType     `json:"type"`
	UserID       string               `json:"user_id"`
	Timestamp    int64                `json:"timestamp"`
	Registration *RegistrationPayload `json:"registration"`
	Metadata     map[string]any       `json:"metadata"`
}
