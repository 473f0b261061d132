package model

import "time"

// Period selects the window of a metrics query.
type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
)

// Days returns the window length, or 0 for an unknown period.
func (p Period) Days() int {
	switch p {
	case Period7Days:
		return 7
	case Period30Days:
		return 30
	case Period90Days:
		return 90
	default:
		return 0
	}
}

// MetricsFilter represents metrics query filters.
type MetricsFilter struct {
	EventID string
	From    time.Time
	To      time.Time
}

// DailyCount is a per-day, per-type activity count.
type DailyCount struct {
	Day   string           `json:"day"`
	Type  NotificationType `json:"type"`
	Count uint64           `json:"count"`
}

// EventMetrics is the time series view of an event's activity.
type EventMetrics struct {
	EventID       string       `json:"event_id"`
	Period        Period       `json:"period"`
	Start         string       `json:"start"`
	End           string       `json:"end"`
	Views         []DailyCount `json:"views"`
	Registrations []DailyCount `json:"registrations"`
	Ratings       []DailyCount `json:"ratings"`
	TotalViews    uint64       `json:"total_views"`
	TotalSignups  uint64       `json:"total_registrations"`
}
