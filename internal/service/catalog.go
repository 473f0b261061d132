package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"event-analytics-service/internal/model"
	"event-analytics-service/internal/repository"
)

// recentFeedLimit bounds the head of the feed loaded per event. Registration
// records are always loaded in full.
const recentFeedLimit = 100

// Source is the read side of the event store and notification feed that
// the calculators work on.
type Source interface {
	EventByID(id string) (model.Event, bool)
	Events() []model.Event
	EventNotifications(eventID string) []model.Notification
}

// Catalog is an immutable, already-loaded Source.
type Catalog struct {
	events        []model.Event
	byID          map[string]int
	notifications map[string][]model.Notification
}

// NewCatalog indexes events and orders each event's notifications
// newest first.
func NewCatalog(events []model.Event, notifications map[string][]model.Notification) *Catalog {
	c := &Catalog{
		events:        append([]model.Event(nil), events...),
		byID:          make(map[string]int, len(events)),
		notifications: make(map[string][]model.Notification, len(notifications)),
	}
	for i, event := range c.events {
		c.byID[event.ID] = i
	}
	for eventID, feed := range notifications {
		sorted := append([]model.Notification(nil), feed...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
		c.notifications[eventID] = sorted
	}
	return c
}

func (c *Catalog) EventByID(id string) (model.Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Event{}, false
	}
	return c.events[i], true
}

func (c *Catalog) Events() []model.Event {
	return c.events
}

func (c *Catalog) EventNotifications(eventID string) []model.Notification {
	return c.notifications[eventID]
}

// CatalogLoader builds Catalogs from the event store and the activity feed.
type CatalogLoader struct {
	events   repository.EventRepository
	activity repository.ActivityRepository
}

// NewCatalogLoader constructs a CatalogLoader.
func NewCatalogLoader(events repository.EventRepository, activity repository.ActivityRepository) *CatalogLoader {
	return &CatalogLoader{events: events, activity: activity}
}

// LoadForActor loads every event, and the feeds of the events the actor owns.
func (l *CatalogLoader) LoadForActor(ctx context.Context, actor *model.Actor, owns Ownership) (*Catalog, error) {
	events, err := l.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	feeds := make(map[string][]model.Notification)
	if actor != nil {
		for _, event := range events {
			if !owns(*actor, event) {
				continue
			}
			feed, err := l.loadFeed(ctx, event.ID)
			if err != nil {
				return nil, err
			}
			feeds[event.ID] = feed
		}
	}
	return NewCatalog(events, feeds), nil
}

// LoadEvent loads a single event with its feed. Unknown ids yield an empty
// catalog rather than an error.
func (l *CatalogLoader) LoadEvent(ctx context.Context, eventID string) (*Catalog, error) {
	event, err := l.events.FindByID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return NewCatalog(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}

	feed, err := l.loadFeed(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return NewCatalog([]model.Event{*event}, map[string][]model.Notification{eventID: feed}), nil
}

// loadFeed merges the recent head of an event's feed with all of its
// registration records, so counts never depend on how busy the feed is.
func (l *CatalogLoader) loadFeed(ctx context.Context, eventID string) ([]model.Notification, error) {
	recent, err := l.activity.ListByEvent(ctx, eventID, recentFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("load activity for %s: %w", eventID, err)
	}
	registrations, err := l.activity.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load registrations for %s: %w", eventID, err)
	}

	seen := make(map[string]bool, len(recent))
	feed := make([]model.Notification, 0, len(recent)+len(registrations))
	for _, n := range recent {
		seen[n.ID] = true
		feed = append(feed, n)
	}
	for _, n := range registrations {
		if !seen[n.ID] {
			feed = append(feed, n)
		}
	}
	return feed, nil
}
