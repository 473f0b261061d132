package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"event-analytics-service/internal/model"
)

const (
	registrationsCollection = "registrations"
	updatesCollection       = "attendee_updates"
)

// RegistrationRepository defines store operations on registrations and
// attendee updates.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *model.Registration) error
	ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	CheckIn(ctx context.Context, eventID, registrationID string, at time.Time) error
	RecordUpdate(ctx context.Context, update *model.AttendeeUpdate) error
}

type registrationRepository struct {
	registrations *mongo.Collection
	updates       *mongo.Collection
}

// NewRegistrationRepository creates a RegistrationRepository backed by MongoDB.
func NewRegistrationRepository(db *mongo.Database) RegistrationRepository {
	return &registrationRepository{
		registrations: db.Collection(registrationsCollection),
		updates:       db.Collection(updatesCollection),
	}
}

func (r *registrationRepository) Create(ctx context.Context, registration *model.Registration) error {
	if _, err := r.registrations.InsertOne(ctx, registration); err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})

	cursor, err := r.registrations.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}
	defer cursor.Close(ctx)

	registrations := []model.Registration{}
	if err := cursor.All(ctx, &registrations); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	return registrations, nil
}

func (r *registrationRepository) CheckIn(ctx context.Context, eventID, registrationID string, at time.Time) error {
	filter := bson.M{"_id": registrationID, "event_id": eventID}
	update := bson.M{"$set": bson.M{"checked_in": true, "checked_in_at": at}}

	res, err := r.registrations.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("check in: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *registrationRepository) RecordUpdate(ctx context.Context, update *model.AttendeeUpdate) error {
	if _, err := r.updates.InsertOne(ctx, update); err != nil {
		return fmt.Errorf("insert attendee update: %w", err)
	}
	return nil
}
