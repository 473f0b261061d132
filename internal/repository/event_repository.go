package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"event-analytics-service/internal/model"
)

const eventsCollection = "events"

// EventRepository defines the store operations on event records.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindAll(ctx context.Context) ([]model.Event, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, event *model.Event) error
	Cancel(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	AddRating(ctx context.Context, id string, rating model.Rating) error
}

type eventRepository struct {
	coll *mongo.Collection
}

// NewEventRepository creates an EventRepository backed by MongoDB.
func NewEventRepository(db *mongo.Database) EventRepository {
	return &eventRepository{coll: db.Collection(eventsCollection)}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context) ([]model.Event, error) {
	opts := options.Find().SetSort(bson.M{"date": 1})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	events := []model.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return int(n), nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	event.UpdatedAt = time.Now().UTC()

	update := bson.M{"$set": bson.M{
		"title":        event.Title,
		"capacity":     event.Capacity,
		"ticket_types": event.TicketTypes,
		"status":       event.Status,
		"date":         event.Date,
		"updated_at":   event.UpdatedAt,
	}}
	return r.updateOne(ctx, event.ID, update)
}

func (r *eventRepository) Cancel(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"status":     model.EventStatusCancelled,
		"updated_at": time.Now().UTC(),
	}}
	return r.updateOne(ctx, id, update)
}

func (r *eventRepository) IncrementViews(ctx context.Context, id string) error {
	update := bson.M{"$inc": bson.M{"views": 1}}
	return r.updateOne(ctx, id, update)
}

func (r *eventRepository) AddRating(ctx context.Context, id string, rating model.Rating) error {
	update := bson.M{
		"$push": bson.M{"ratings": rating},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	return r.updateOne(ctx, id, update)
}

func (r *eventRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
