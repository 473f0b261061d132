package service

import (
	"github.com/shopspring/decimal"

	"event-analytics-service/internal/model"
)

const eventActivityLimit = 10

// CalculateEventStats derives the statistics snapshot of one event. It
// reports false when the event cannot be resolved.
func CalculateEventStats(src Source, eventID string) (model.EventStats, bool) {
	event, ok := src.EventByID(eventID)
	if !ok {
		return model.EventStats{}, false
	}
	feed := src.EventNotifications(eventID)

	registrations := make([]model.Notification, 0, len(feed))
	for _, n := range feed {
		if n.Type == model.NotificationRegistration {
			registrations = append(registrations, n)
		}
	}

	var payments model.PaymentStats
	for _, n := range registrations {
		switch paymentStatus(n) {
		case model.PaymentPaid:
			payments.Paid++
		case model.PaymentPending:
			payments.Pending++
		case model.PaymentRefunded:
			payments.Refunded++
		}
	}

	totalRevenue := decimal.Zero
	ticketStats := make([]model.TicketStats, 0, len(event.TicketTypes))
	for _, ticket := range event.TicketTypes {
		sold := 0
		for _, n := range registrations {
			if n.Registration != nil && n.Registration.TicketType == ticket.Name && paymentStatus(n) == model.PaymentPaid {
				sold++
			}
		}

		revenue := decimal.NewFromFloat(ticket.Price).Mul(decimal.NewFromInt(int64(sold)))
		totalRevenue = totalRevenue.Add(revenue)

		ticketStats = append(ticketStats, model.TicketStats{
			TicketType: ticket.Name,
			Sold:       sold,
			Available:  max(0, ticket.Available-sold),
			Revenue:    revenue.InexactFloat64(),
		})
	}
	payments.TotalRevenue = totalRevenue.InexactFloat64()

	return model.EventStats{
		EventID:            event.ID,
		TotalViews:         event.Views,
		TotalRegistrations: len(registrations),
		ConversionRate:     conversionRate(len(registrations), event.Views),
		AverageRating:      averageRating(event.Ratings),
		RecentActivity:     recentActivity(feed, eventActivityLimit),
		Payments:           payments,
		TicketStats:        ticketStats,
	}, true
}

func paymentStatus(n model.Notification) model.PaymentStatus {
	if n.Registration == nil {
		return ""
	}
	return n.Registration.PaymentStatus
}

// conversionRate is registrations per hundred views, unrounded.
func conversionRate(registrations, views int) float64 {
	if views == 0 {
		return 0
	}
	return float64(registrations) / float64(views) * 100
}

func averageRating(ratings []model.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Value
	}
	return float64(sum) / float64(len(ratings))
}

// recentActivity keeps the feed order and maps the first limit entries.
func recentActivity(feed []model.Notification, limit int) []model.ActivityItem {
	n := min(len(feed), limit)
	items := make([]model.ActivityItem, 0, n)
	for _, notification := range feed[:n] {
		var data any = notification
		if notification.Registration != nil {
			data = *notification.Registration
		}
		items = append(items, model.ActivityItem{
			Timestamp: notification.CreatedAt,
			Type:      notification.Type,
			Data:      data,
		})
	}
	return items
}
