package service

import "event-analytics-service/internal/model"

// Ownership decides whether an actor owns an event. Every aggregation in
// the service takes the same predicate so owner matching cannot drift
// between the stats scheduler and the summary tracker.
type Ownership func(actor model.Actor, event model.Event) bool

// OwnedByID matches the event creator id exactly.
func OwnedByID(actor model.Actor, event model.Event) bool {
	return actor.ID != "" && event.Creator.ID == actor.ID
}

// OwnedByIDOrName also accepts a creator name equal to the actor name.
// Name collisions make this unsafe; it is only enabled by configuration.
func OwnedByIDOrName(actor model.Actor, event model.Event) bool {
	if OwnedByID(actor, event) {
		return true
	}
	return actor.Name != "" && event.Creator.Name == actor.Name
}
