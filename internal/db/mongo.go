package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient wraps the MongoDB client holding events and registrations.
type MongoClient struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoClient connects and pings the given database.
func NewMongoClient(ctx context.Context, uri, database string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoClient{
		client:   client,
		database: client.Database(database),
	}, nil
}

// Collection returns a collection handle.
func (c *MongoClient) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// Database returns the database handle.
func (c *MongoClient) Database() *mongo.Database {
	return c.database
}

// Disconnect closes the MongoDB connection.
func (c *MongoClient) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the lookup indexes the repositories rely on.
func (c *MongoClient) EnsureIndexes(ctx context.Context) error {
	_, err := c.Collection("events").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "creator.id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create events index: %w", err)
	}

	_, err = c.Collection("registrations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create registrations index: %w", err)
	}
	return nil
}
