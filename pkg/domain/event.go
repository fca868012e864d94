// Package domain provides the core event-sourcing and DDD abstractions that
// sit beneath every aggregate in the system: events, envelopes, the
// eventstore contract, event dispatch, and the unit-of-work commit protocol.
//
// The domain layer is kept free of infrastructure concerns (no SQL, no HTTP)
// so it can be exercised in isolation and reused by every aggregate package.
package domain

import (
	"context"
	"time"
)

// ContextKey is the type used for values carried on a request context that
// command handlers and event constructors read (creator, instance, owner).
type ContextKey string

const (
	UserIDKey     ContextKey = "user_id"
	InstanceIDKey ContextKey = "instance_id"
	OwnerIDKey    ContextKey = "owner_id"
)

// AggregateState is the lifecycle state of an aggregate, folded from its
// event history. Mutating commands gate on state=Active; Deleted and Locked
// are terminal or administrative states respectively.
type AggregateState string

const (
	StateActive   AggregateState = "active"
	StateInactive AggregateState = "inactive"
	StateDeleted  AggregateState = "deleted"
	StateLocked   AggregateState = "locked"
)

// Event represents an immutable fact about something that happened to an
// aggregate. Events are append-only and are the unit of persistence in the
// eventstore.
//
// Concrete event types (UserCreatedEvent, OrganizationCreatedEvent, ...) are
// plain structs that implement this interface; the eventstore never
// interprets payloads itself, it only persists and replays them in order.
type Event interface {
	// EventType returns a stable identifier in "aggregatetype.verb" form,
	// e.g. "user.created", "organization.deactivated".
	EventType() string

	// AggregateType returns the aggregate kind this event belongs to
	// ("user", "organization", "project", ...). Combined with AggregateID
	// and InstanceID it forms the aggregate's consistency boundary.
	AggregateType() string

	// AggregateID returns the ID of the aggregate that generated this event.
	AggregateID() string

	// InstanceID returns the multi-tenant boundary this event belongs to.
	// Every projection query must filter on this value.
	InstanceID() string

	// Owner returns the resource-owner organization ID for this event, or
	// the empty string for events that precede ownership assignment.
	Owner() string

	// SequenceNo returns the 1-based aggregate version this event produced.
	// Versions for a given aggregate are contiguous: 1, 2, 3, ...
	SequenceNo() int64

	// CreatedAt returns the business timestamp the event occurred at.
	CreatedAt() time.Time

	// Creator returns the subject (user or service account) that caused
	// this event, for audit purposes.
	Creator() string

	// Payload returns the event-specific data as a JSON-equivalent byte
	// slice, to be persisted alongside the envelope.
	Payload() []byte

	// SetSequenceNo assigns the aggregate version. Called by the aggregate
	// when the event is added, before it is considered immutable.
	SetSequenceNo(sequenceNo int64)
}

// Envelope wraps a persisted Event with the metadata the eventstore assigns
// at commit time: a unique event ID, the global commit position, and the
// within-transaction ordering tiebreaker.
type Envelope interface {
	// Event returns the wrapped domain event.
	Event() Event

	// Metadata returns free-form metadata attached at persistence time
	// (correlation IDs, causation IDs, and the like).
	Metadata() map[string]interface{}

	// EventID returns the unique identifier assigned to this envelope.
	EventID() string

	// Timestamp returns when the envelope was persisted (infrastructure
	// time, distinct from Event().CreatedAt()'s business time).
	Timestamp() time.Time

	// Position returns the global, monotonically non-decreasing commit
	// position assigned to this event.
	Position() int64

	// InPositionOrder disambiguates events that share a Position because
	// they were committed in the same transaction.
	InPositionOrder() int
}

// EventFilter narrows an EventStore.ReadSince scan. A zero-value filter
// matches every event.
type EventFilter struct {
	InstanceID     string
	AggregateTypes []string
}

// EventStore is the durable, append-only log that is the source of truth
// for every aggregate. Implementations must enforce per-aggregate version
// contiguity and global position ordering.
type EventStore interface {
	// Push persists a batch of events atomically. Within the transaction,
	// each event's declared SequenceNo is checked against the aggregate's
	// current max version + 1; a mismatch fails the whole batch with
	// ConcurrencyError. All events in the batch are assigned a shared,
	// strictly-increasing Position and an ascending InPositionOrder.
	Push(ctx context.Context, events []Event) ([]Envelope, error)

	// ReadAggregate returns every event for one aggregate, ascending by
	// version.
	ReadAggregate(ctx context.Context, instanceID, aggregateType, aggregateID string) ([]Envelope, error)

	// ReadSince returns up to limit events positioned strictly after
	// position, ascending, optionally narrowed by filter. Used by
	// projection workers to tail the log.
	ReadSince(ctx context.Context, position int64, limit int, filter *EventFilter) ([]Envelope, error)

	// CurrentPosition returns the highest position committed so far, or 0
	// if the log is empty.
	CurrentPosition(ctx context.Context) (int64, error)
}

// EventHandler processes envelopes to implement projections, sagas, or
// integration handlers.
type EventHandler interface {
	// Handle processes a single event envelope. Handlers must be
	// idempotent: at-least-once delivery means an event may be replayed.
	Handle(ctx context.Context, envelope Envelope) error

	// EventTypes lists the event types this handler subscribes to.
	EventTypes() []string
}

// EventDispatcher fans persisted envelopes out to registered handlers.
// This is an in-process, best-effort notification path; the durable,
// ordered path projection consumers rely on is the projection manager
// tailing EventStore.ReadSince, not this dispatcher.
type EventDispatcher interface {
	Dispatch(ctx context.Context, envelopes []Envelope) error
	Subscribe(eventType string, handler EventHandler) error
	Start() error
}

// UnitOfWork implements persist-then-dispatch: events are durably appended
// to the eventstore before being handed to the dispatcher, so a dispatch
// failure never loses data.
type UnitOfWork interface {
	RegisterEvents(events []Event)
	Commit(ctx context.Context) ([]Envelope, error)
	Rollback() error
}

// UnitOfWorkFactory builds a fresh UnitOfWork for a single command
// invocation. A UnitOfWork is single-use (Commit marks it committed for
// good), so command handlers are given a factory rather than a shared
// instance and call it once per Handle.
type UnitOfWorkFactory func() UnitOfWork

// EntityEvent is a generic Event implementation for cases where a concrete
// typed event struct isn't available, such as reconstructing an event whose
// type isn't in the local registry. Concrete aggregates use their own typed
// event structs (see user_events.go); EntityEvent is the fallback the
// infrastructure layer reaches for when it can't resolve a type.
type EntityEvent struct {
	EntityType   string    `json:"entity_type"`
	Verb         string    `json:"verb"`
	AggregateId  string    `json:"aggregate_id"`
	InstanceId   string    `json:"instance_id"`
	OwnerId      string    `json:"owner_id"`
	SequenceNum  int64     `json:"sequence_no"`
	CreatedTime  time.Time `json:"created_at"`
	CreatorId    string    `json:"creator_id"`
	PayloadBytes []byte    `json:"payload"`
}

// NewEntityEvent builds an EntityEvent, pulling creator/instance/owner from
// ctx when present.
func NewEntityEvent(ctx context.Context, entityType, verb, aggregateID string, payload []byte) *EntityEvent {
	e := &EntityEvent{
		EntityType:   entityType,
		Verb:         verb,
		AggregateId:  aggregateID,
		CreatedTime:  time.Now(),
		PayloadBytes: payload,
	}
	if ctx != nil {
		if v, ok := ctx.Value(UserIDKey).(string); ok {
			e.CreatorId = v
		}
		if v, ok := ctx.Value(InstanceIDKey).(string); ok {
			e.InstanceId = v
		}
		if v, ok := ctx.Value(OwnerIDKey).(string); ok {
			e.OwnerId = v
		}
	}
	return e
}

func (e *EntityEvent) EventType() string     { return e.EntityType + "." + e.Verb }
func (e *EntityEvent) AggregateType() string { return e.EntityType }
func (e *EntityEvent) AggregateID() string   { return e.AggregateId }
func (e *EntityEvent) InstanceID() string    { return e.InstanceId }
func (e *EntityEvent) Owner() string         { return e.OwnerId }
func (e *EntityEvent) SequenceNo() int64     { return e.SequenceNum }
func (e *EntityEvent) CreatedAt() time.Time  { return e.CreatedTime }
func (e *EntityEvent) Creator() string       { return e.CreatorId }
func (e *EntityEvent) Payload() []byte       { return e.PayloadBytes }
func (e *EntityEvent) SetSequenceNo(n int64) { e.SequenceNum = n }
