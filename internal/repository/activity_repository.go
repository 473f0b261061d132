package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"event-analytics-service/internal/model"
)

// ActivityRepository defines storage operations for the notification feed.
type ActivityRepository interface {
	// Create inserts a single activity record.
	Create(ctx context.Context, activity model.Notification) error

	// CreateBatch inserts multiple records with a single ClickHouse batch.
	CreateBatch(ctx context.Context, activities []model.Notification) error

	// ListByEvent returns the most recent records of an event, newest first.
	ListByEvent(ctx context.Context, eventID string, limit int) ([]model.Notification, error)

	// ListRegistrations returns every registration record of an event, newest first.
	ListRegistrations(ctx context.Context, eventID string) ([]model.Notification, error)

	// FetchDailyCounts groups an event's records by day and type.
	FetchDailyCounts(ctx context.Context, filter model.MetricsFilter) ([]model.DailyCount, error)
}

type activityRepository struct {
	conn clickhouse.Conn
}

// NewActivityRepository creates an ActivityRepository backed by ClickHouse.
func NewActivityRepository(conn clickhouse.Conn) ActivityRepository {
	return &activityRepository{conn: conn}
}

const insertActivityQuery = `
	INSERT INTO event_activity (id, event_id, type, user_id, ticket_type, payment_status, amount, metadata, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const batchActivityQuery = `INSERT INTO event_activity (id, event_id, type, user_id, ticket_type, payment_status, amount, metadata, created_at)`

const listActivityQuery = `
	SELECT id, event_id, type, user_id, ticket_type, payment_status, amount, metadata, created_at
	FROM event_activity FINAL
	WHERE event_id = ?
	ORDER BY created_at DESC
	LIMIT ?
`

const listRegistrationsQuery = `
	SELECT id, event_id, type, user_id, ticket_type, payment_status, amount, metadata, created_at
	FROM event_activity FINAL
	WHERE event_id = ? AND type = 'registration'
	ORDER BY created_at DESC
`

const dailyCountsQuery = `
	SELECT toString(toDate(created_at)) AS day, type, count() AS count
	FROM event_activity FINAL
	WHERE event_id = ? AND created_at >= ? AND created_at < ?
	GROUP BY day, type
	ORDER BY day, type
`

type activityRow struct {
	ID            string    `ch:"id"`
	EventID       string    `ch:"event_id"`
	Type          string    `ch:"type"`
	UserID        string    `ch:"user_id"`
	TicketType    string    `ch:"ticket_type"`
	PaymentStatus string    `ch:"payment_status"`
	Amount        float64   `ch:"amount"`
	Metadata      string    `ch:"metadata"`
	CreatedAt     time.Time `ch:"created_at"`
}

type dailyCountRow struct {
	Day   string `ch:"day"`
	Type  string `ch:"type"`
	Count uint64 `ch:"count"`
}

func (r *activityRepository) Create(ctx context.Context, activity model.Notification) error {
	metadata, err := marshalMetadata(activityMetadata(activity))
	if err != nil {
		return err
	}

	userID, ticketType, status, amount := registrationColumns(activity)
	return r.conn.Exec(ctx, insertActivityQuery,
		activity.ID,
		activity.EventID,
		string(activity.Type),
		userID,
		ticketType,
		status,
		amount,
		metadata,
		activity.CreatedAt,
	)
}

func (r *activityRepository) CreateBatch(ctx context.Context, activities []model.Notification) error {
	if len(activities) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, batchActivityQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, activity := range activities {
		metadata, err := marshalMetadata(activityMetadata(activity))
		if err != nil {
			_ = batch.Abort()
			return err
		}

		userID, ticketType, status, amount := registrationColumns(activity)
		if err := batch.Append(
			activity.ID,
			activity.EventID,
			string(activity.Type),
			userID,
			ticketType,
			status,
			amount,
			metadata,
			activity.CreatedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("batch execution error: %w", err)
	}
	return nil
}

func (r *activityRepository) ListByEvent(ctx context.Context, eventID string, limit int) ([]model.Notification, error) {
	var rows []activityRow
	if err := r.conn.Select(ctx, &rows, listActivityQuery, eventID, limit); err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}

	return toNotifications(rows), nil
}

func (r *activityRepository) ListRegistrations(ctx context.Context, eventID string) ([]model.Notification, error) {
	var rows []activityRow
	if err := r.conn.Select(ctx, &rows, listRegistrationsQuery, eventID); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return toNotifications(rows), nil
}

func (r *activityRepository) FetchDailyCounts(ctx context.Context, filter model.MetricsFilter) ([]model.DailyCount, error) {
	var rows []dailyCountRow
	if err := r.conn.Select(ctx, &rows, dailyCountsQuery, filter.EventID, filter.From, filter.To); err != nil {
		return nil, fmt.Errorf("fetch daily counts: %w", err)
	}

	counts := make([]model.DailyCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, model.DailyCount{
			Day:   row.Day,
			Type:  model.NotificationType(row.Type),
			Count: row.Count,
		})
	}
	return counts, nil
}

func toNotifications(rows []activityRow) []model.Notification {
	activities := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, row.toNotification())
	}
	return activities
}

func (row activityRow) toNotification() model.Notification {
	n := model.Notification{
		ID:        row.ID,
		EventID:   row.EventID,
		Type:      model.NotificationType(row.Type),
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if n.Type == model.NotificationRegistration {
		n.Registration = &model.RegistrationPayload{
			UserID:        row.UserID,
			TicketType:    row.TicketType,
			PaymentStatus: model.PaymentStatus(row.PaymentStatus),
			Amount:        row.Amount,
		}
	}
	if row.Metadata != "" && row.Metadata != "{}" {
		var metadata map[string]any
		if err := json.Unmarshal([]byte(row.Metadata), &metadata); err == nil {
			n.Metadata = metadata
		}
	}
	if n.Registration != nil {
		n.Registration.RegistrationID = stringOrEmpty(n.Metadata, "registration_id")
	}
	return n
}

// registrationColumns flattens the optional registration payload.
func registrationColumns(activity model.Notification) (string, string, string, float64) {
	if activity.Registration == nil {
		return activity.UserID, "", "", 0
	}
	reg := activity.Registration
	userID := reg.UserID
	if userID == "" {
		userID = activity.UserID
	}
	return userID, reg.TicketType, string(reg.PaymentStatus), reg.Amount
}

// activityMetadata carries the registration id, which has no column of its own.
func activityMetadata(activity model.Notification) map[string]any {
	if activity.Registration == nil || activity.Registration.RegistrationID == "" {
		return activity.Metadata
	}
	metadata := make(map[string]any, len(activity.Metadata)+1)
	for k, v := range activity.Metadata {
		metadata[k] = v
	}
	metadata["registration_id"] = activity.Registration.RegistrationID
	return metadata
}

func stringOrEmpty(metadata map[string]any, key string) string {
	if v, ok := metadata[key].(string); ok {
		return v
	}
	return ""
}

func marshalMetadata(metadata map[string]interface{}) (string, error) {
	if metadata == nil {
		return "{}", nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(b), nil
}
