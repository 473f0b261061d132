package model

import (
	"time"
)

// EventStatus is the lifecycle flag of an event.
type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

// Creator references the user that owns an event.
type Creator struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// TicketType is one purchasable ticket tier of an event.
type TicketType struct {
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Available int     `json:"available" bson:"available"`
	Sold      *int    `json:"sold,omitempty" bson:"sold,omitempty"`
}

// Rating is a single attendee review.
type Rating struct {
	Value     int       `json:"value" bson:"value"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Event is the store record for a listed event.
type Event struct {
	ID          string       `json:"id" bson:"_id"`
	Title       string       `json:"title" bson:"title"`
	Creator     Creator      `json:"creator" bson:"creator"`
	Capacity    int          `json:"capacity" bson:"capacity"`
	Views       int          `json:"views" bson:"views"`
	TicketTypes []TicketType `json:"ticket_types" bson:"ticket_types"`
	Ratings     []Rating     `json:"ratings" bson:"ratings"`
	Status      EventStatus  `json:"status" bson:"status"`
	Date        time.Time    `json:"date" bson:"date"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

// EventRequest is the payload for creating or editing an event.
type EventRequest struct {
	Title       string       `json:"title"`
	Creator     Creator      `json:"creator"`
	Capacity    int          `json:"capacity"`
	TicketTypes []TicketType `json:"ticket_types"`
	Status      EventStatus  `json:"status"`
	Date        int64        `json:"date"`
}

// RatingRequest is the payload for rating an event.
type RatingRequest struct {
	Value   int    `json:"value"`
	Comment string `json:"comment"`
}

// Actor is the authenticated user looking at their own dashboard.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Registration is a stored attendee registration.
type Registration struct {
	ID            string        `json:"id" bson:"_id"`
	EventID       string        `json:"event_id" bson:"event_id"`
	UserID        string        `json:"user_id" bson:"user_id"`
	Name          string        `json:"name" bson:"name"`
	Email         string        `json:"email" bson:"email"`
	TicketType    string        `json:"ticket_type" bson:"ticket_type"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	Amount        float64       `json:"amount" bson:"amount"`
	CheckedIn     bool          `json:"checked_in" bson:"checked_in"`
	CheckedInAt   *time.Time    `json:"checked_in_at,omitempty" bson:"checked_in_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}

// RegistrationRequest is the payload for registering to an event.
type RegistrationRequest struct {
	UserID        string        `json:"user_id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	TicketType    string        `json:"ticket_type"`
	PaymentStatus PaymentStatus `json:"payment_status"`
}

// AttendeeUpdate is a message an owner sent to the attendees of an event.
type AttendeeUpdate struct {
	ID         string    `json:"id" bson:"_id"`
	EventID    string    `json:"event_id" bson:"event_id"`
	Subject    string    `json:"subject" bson:"subject"`
	Message    string    `json:"message" bson:"message"`
	Recipients int       `json:"recipients" bson:"recipients"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
