package domain

import "context"

// AggregateRoot is the interface every event-sourced aggregate implements.
// State changes happen only through business methods, never direct field
// access, and every change is recorded as an Event.
type AggregateRoot interface {
	// ID returns the aggregate's unique identifier within its type.
	ID() string

	// AggregateType returns the aggregate kind ("user", "organization",
	// "project", ...).
	AggregateType() string

	// InstanceID returns the tenant boundary the aggregate lives in.
	InstanceID() string

	// Version returns the current sequence number (1-based, 0 before any
	// event has been applied).
	Version() int64

	// State returns the aggregate's current lifecycle state.
	State() AggregateState

	// UncommittedEvents returns events produced by business methods but
	// not yet persisted.
	UncommittedEvents() []Event

	// MarkEventsAsCommitted clears the uncommitted events after a
	// successful Repository.Save.
	MarkEventsAsCommitted()

	// LoadFromHistory reconstructs state by folding stored events in
	// order. Must not produce new uncommitted events.
	LoadFromHistory(events []Event)
}

// Repository abstracts aggregate persistence over an EventStore: save
// extracts and pushes uncommitted events under optimistic concurrency,
// load replays an aggregate's full history.
type Repository[T AggregateRoot] interface {
	// Save pushes the aggregate's uncommitted events and marks them
	// committed on success. Returns a ConcurrencyError if another writer
	// has advanced the aggregate's version since it was loaded.
	Save(ctx context.Context, aggregate T) error

	// Load reconstructs the aggregate with the given ID within instanceID.
	// Returns a NotFoundError if no events exist for it.
	Load(ctx context.Context, instanceID, id string) (T, error)
}
