package analyticsclient

import (
	"strconv"
	"strings"
	"time"

	"event-analytics-service/internal/model"
)

// mockAnchor fixes every fallback date so fallback payloads are identical
// across calls.
var mockAnchor = time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

// MockEventAnalytics is the fallback for the analytics endpoint.
func MockEventAnalytics(eventID string) model.EventAnalytics {
	byDay := make([]model.DailyCount, 0, 7)
	for i := 6; i >= 0; i-- {
		byDay = append(byDay, model.DailyCount{
			Day:   mockAnchor.AddDate(0, 0, -i).Format(time.DateOnly),
			Type:  model.NotificationRegistration,
			Count: uint64(8 + (i*5)%7),
		})
	}
	return model.EventAnalytics{
		EventID:            eventID,
		TotalViews:         1250,
		TotalRegistrations: 87,
		ConversionRate:     6.96,
		AverageRating:      4.6,
		TotalRatings:       42,
		Revenue:            4350,
		CapacityUsed:       87,
		TicketStats: []model.TicketStats{
			{TicketType: "General", Sold: 62, Available: 38, Revenue: 1860},
			{TicketType: "VIP", Sold: 25, Available: 5, Revenue: 2490},
		},
		RegistrationsByDay: byDay,
	}
}

// MockRegisteredUsers is the fallback for the registrations endpoint.
func MockRegisteredUsers(eventID string) []model.RegisteredUser {
	return []model.RegisteredUser{
		{
			RegistrationID: eventID + "-reg-1",
			UserID:         "user-1",
			Name:           "John Doe",
			Email:          "john@example.com",
			TicketType:     "General",
			PaymentStatus:  model.PaymentPaid,
			RegisteredAt:   mockAnchor.AddDate(0, 0, -10),
			CheckedIn:      true,
		},
		{
			RegistrationID: eventID + "-reg-2",
			UserID:         "user-2",
			Name:           "Jane Smith",
			Email:          "jane@example.com",
			TicketType:     "VIP",
			PaymentStatus:  model.PaymentPaid,
			RegisteredAt:   mockAnchor.AddDate(0, 0, -7),
		},
		{
			RegistrationID: eventID + "-reg-3",
			UserID:         "user-3",
			Name:           "Bob Johnson",
			Email:          "bob@example.com",
			TicketType:     "General",
			PaymentStatus:  model.PaymentPending,
			RegisteredAt:   mockAnchor.AddDate(0, 0, -2),
		},
	}
}

var mockTicketPrices = map[string]float64{"General": 30, "VIP": 99.6}

// MockEventFinancials is the fallback for the financials endpoint, derived
// from the fallback attendee list.
func MockEventFinancials(eventID string) model.EventFinancials {
	financials := model.EventFinancials{EventID: eventID, Currency: "USD"}
	for _, u := range MockRegisteredUsers(eventID) {
		amount := mockTicketPrices[u.TicketType]
		switch u.PaymentStatus {
		case model.PaymentPaid:
			financials.GrossRevenue += amount
		case model.PaymentPending:
			financials.PendingRevenue += amount
		}
		financials.Transactions = append(financials.Transactions, model.Transaction{
			RegistrationID: u.RegistrationID,
			AttendeeName:   u.Name,
			TicketType:     u.TicketType,
			Amount:         amount,
			Status:         u.PaymentStatus,
			Date:           u.RegisteredAt,
		})
	}
	financials.NetRevenue = financials.GrossRevenue - financials.RefundedAmount
	return financials
}

// MockEventMetrics is the fallback for the metrics endpoint: one view and
// one registration count per day of the period.
func MockEventMetrics(eventID string, period model.Period) model.EventMetrics {
	days := period.Days()
	resp := model.EventMetrics{
		EventID:       eventID,
		Period:        period,
		Start:         mockAnchor.AddDate(0, 0, -days).Format(time.RFC3339),
		End:           mockAnchor.Format(time.RFC3339),
		Views:         make([]model.DailyCount, 0, days),
		Registrations: make([]model.DailyCount, 0, days),
		Ratings:       []model.DailyCount{},
	}
	for i := days - 1; i >= 0; i-- {
		day := mockAnchor.AddDate(0, 0, -i).Format(time.DateOnly)
		views := uint64(40 + (i*7)%25)
		regs := uint64(2 + i%4)
		resp.Views = append(resp.Views, model.DailyCount{Day: day, Type: model.NotificationView, Count: views})
		resp.Registrations = append(resp.Registrations, model.DailyCount{Day: day, Type: model.NotificationRegistration, Count: regs})
		resp.TotalViews += views
		resp.TotalSignups += regs
	}
	return resp
}

// MockExportCSV renders attendees as CSV. Rows are joined by the literal
// two-character sequence `\n`, matching what the dashboard download expects
// from the fallback path.
func MockExportCSV(users []model.RegisteredUser) []byte {
	rows := []string{"Registration ID,Name,Email,Ticket Type,Payment Status,Registered At,Checked In"}
	for _, u := range users {
		rows = append(rows, strings.Join([]string{
			u.RegistrationID,
			u.Name,
			u.Email,
			u.TicketType,
			string(u.PaymentStatus),
			u.RegisteredAt.Format(time.RFC3339),
			strconv.FormatBool(u.CheckedIn),
		}, ","))
	}
	return []byte(strings.Join(rows, `\n`))
}
