package domain

import (
	"context"
	"time"
)

// EventMeta carries the fields common to every typed event in the system:
// aggregate linkage, tenancy, audit, and ordering. Concrete event structs
// embed it and add their own exported, JSON-serializable payload fields.
// Because EventMeta's fields are unexported, json.Marshal on an embedding
// struct serializes only the concrete event's own fields.
type EventMeta struct {
	aggregateID string
	instanceID  string
	owner       string
	sequenceNo  int64
	createdAt   time.Time
	creator     string
}

// NewEventMeta builds an EventMeta for aggregateID, reading creator,
// instance, and owner from ctx when present.
func NewEventMeta(ctx context.Context, aggregateID string) EventMeta {
	m := EventMeta{aggregateID: aggregateID, createdAt: time.Now()}
	if ctx != nil {
		if v, ok := ctx.Value(UserIDKey).(string); ok {
			m.creator = v
		}
		if v, ok := ctx.Value(InstanceIDKey).(string); ok {
			m.instanceID = v
		}
		if v, ok := ctx.Value(OwnerIDKey).(string); ok {
			m.owner = v
		}
	}
	return m
}

// Hydratable is implemented by any event embedding EventMeta. Infrastructure
// code reconstructing events from storage type-asserts to this interface
// instead of switching on every concrete event type, since Hydrate is
// promoted from the embedded EventMeta automatically.
type Hydratable interface {
	Hydrate(aggregateID, instanceID, owner, creator string, sequenceNo int64, createdAt time.Time)
}

// Hydrate populates the fields JSON unmarshaling cannot reach because
// EventMeta's fields are unexported. Called by the eventstore after
// deserializing a stored event's payload into its concrete type.
func (m *EventMeta) Hydrate(aggregateID, instanceID, owner, creator string, sequenceNo int64, createdAt time.Time) {
	m.aggregateID = aggregateID
	m.instanceID = instanceID
	m.owner = owner
	m.creator = creator
	m.sequenceNo = sequenceNo
	m.createdAt = createdAt
}

func (m EventMeta) AggregateID() string   { return m.aggregateID }
func (m EventMeta) InstanceID() string    { return m.instanceID }
func (m EventMeta) Owner() string         { return m.owner }
func (m EventMeta) SequenceNo() int64     { return m.sequenceNo }
func (m EventMeta) CreatedAt() time.Time  { return m.createdAt }
func (m EventMeta) Creator() string       { return m.creator }
func (m *EventMeta) SetSequenceNo(n int64) { m.sequenceNo = n }

// WithOwner returns a copy of m with owner set. Used when a create event
// assigns ownership that isn't yet on the context (e.g. self-owned
// aggregates whose owner is their own ID).
func (m EventMeta) WithOwner(owner string) EventMeta {
	m.owner = owner
	return m
}
