package model

import "time"

// ActivityItem is one entry of a recent-activity list.
type ActivityItem struct {
	Timestamp time.Time        `json:"timestamp"`
	Type      NotificationType `json:"type"`
	Data      any              `json:"data"`
}

// PaymentStats counts registrations per payment status.
type PaymentStats struct {
	Paid         int     `json:"paid"`
	Pending      int     `json:"pending"`
	Refunded     int     `json:"refunded"`
	TotalRevenue float64 `json:"total_revenue"`
}

// TicketStats is the per-ticket-type sales breakdown.
type TicketStats struct {
	TicketType string  `json:"ticket_type"`
	Sold       int     `json:"sold"`
	Available  int     `json:"available"`
	Revenue    float64 `json:"revenue"`
}

// EventStats is the derived statistics snapshot of a single event.
type EventStats struct {
	EventID            string         `json:"event_id"`
	TotalViews         int            `json:"total_views"`
	TotalRegistrations int            `json:"total_registrations"`
	ConversionRate     float64        `json:"conversion_rate"`
	AverageRating      float64        `json:"average_rating"`
	RecentActivity     []ActivityItem `json:"recent_activity"`
	Payments           PaymentStats   `json:"payment_stats"`
	TicketStats        []TicketStats  `json:"ticket_stats"`
}

// AggregateStats folds the EventStats of every event an actor owns.
type AggregateStats struct {
	TotalEvents        int                   `json:"total_events"`
	TotalViews         int                   `json:"total_views"`
	TotalRegistrations int                   `json:"total_registrations"`
	TotalRevenue       float64               `json:"total_revenue"`
	ConversionRate     float64               `json:"conversion_rate"`
	AverageRating      float64               `json:"average_rating"`
	RecentActivity     []ActivityItem        `json:"recent_activity"`
	EventStats         map[string]EventStats `json:"event_stats"`
	IsLoading          bool                  `json:"is_loading"`
	LastUpdated        time.Time             `json:"last_updated"`
}

// MonthlyGrowth is reported as zero; no synthetic trend is derived.
type MonthlyGrowth struct {
	Events        float64 `json:"events"`
	Registrations float64 `json:"registrations"`
	Revenue       float64 `json:"revenue"`
}

// OwnerAnalytics is the dashboard summary card payload.
type OwnerAnalytics struct {
	TotalEvents        int            `json:"total_events"`
	TotalViews         int            `json:"total_views"`
	TotalRegistrations int            `json:"total_registrations"`
	TotalRevenue       float64        `json:"total_revenue"`
	ConversionRate     float64        `json:"conversion_rate"`
	AverageRating      float64        `json:"average_rating"`
	RecentActivity     []ActivityItem `json:"recent_activity"`
	MonthlyGrowth      MonthlyGrowth  `json:"monthly_growth"`
	LastUpdated        time.Time      `json:"last_updated"`
}

// OwnerSummary is returned by the summary endpoint.
type OwnerSummary struct {
	Analytics OwnerAnalytics `json:"analytics"`
	IsLoading bool           `json:"is_loading"`
}
