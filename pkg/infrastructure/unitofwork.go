package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// UnitOfWorkImpl implements persist-then-dispatch: events are pushed to the
// eventstore, marked committed, and only then handed to the dispatcher.
type UnitOfWorkImpl struct {
	eventStore      domain.EventStore
	eventDispatcher domain.EventDispatcher
	events          []domain.Event
	mu              sync.RWMutex
	committed       bool
}

// NewUnitOfWork creates a Unit of Work over store and dispatcher.
func NewUnitOfWork(eventStore domain.EventStore, eventDispatcher domain.EventDispatcher) *UnitOfWorkImpl {
	return &UnitOfWorkImpl{
		eventStore:      eventStore,
		eventDispatcher: eventDispatcher,
		events:          make([]domain.Event, 0, 8),
	}
}

// NewUnitOfWorkFactory returns a factory that builds a fresh UnitOfWork over
// store and dispatcher on every call, so command handlers never reuse an
// already-committed instance across requests.
func NewUnitOfWorkFactory(eventStore domain.EventStore, eventDispatcher domain.EventDispatcher) domain.UnitOfWorkFactory {
	return func() domain.UnitOfWork {
		return NewUnitOfWork(eventStore, eventDispatcher)
	}
}

// RegisterEvents queues events for the next Commit. Events from multiple
// aggregates may be registered together to commit atomically.
func (uow *UnitOfWorkImpl) RegisterEvents(events []domain.Event) {
	if len(events) == 0 {
		return
	}

	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.committed {
		panic("cannot register events after unit of work has been committed")
	}
	uow.events = append(uow.events, events...)
}

// Commit pushes all registered events and dispatches the resulting
// envelopes. A dispatch failure is returned but does not undo the push:
// the events are already durable.
func (uow *UnitOfWorkImpl) Commit(ctx context.Context) ([]domain.Envelope, error) {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.committed {
		return nil, fmt.Errorf("unit of work has already been committed")
	}

	if len(uow.events) == 0 {
		uow.committed = true
		return []domain.Envelope{}, nil
	}

	envelopes, err := uow.eventStore.Push(ctx, uow.events)
	if err != nil {
		return nil, fmt.Errorf("push events: %w", err)
	}
	uow.committed = true

	if err := uow.eventDispatcher.Dispatch(ctx, envelopes); err != nil {
		return envelopes, fmt.Errorf("events persisted but dispatch failed: %w", err)
	}

	return envelopes, nil
}

// Rollback discards queued events. Only valid before Commit.
func (uow *UnitOfWorkImpl) Rollback() error {
	uow.mu.Lock()
	defer uow.mu.Unlock()

	if uow.committed {
		return fmt.Errorf("cannot rollback: unit of work has already been committed")
	}
	uow.events = uow.events[:0]
	return nil
}

// GetRegisteredEvents returns the currently queued events, for tests.
func (uow *UnitOfWorkImpl) GetRegisteredEvents() []domain.Event {
	uow.mu.RLock()
	defer uow.mu.RUnlock()

	events := make([]domain.Event, len(uow.events))
	copy(events, uow.events)
	return events
}

// IsCommitted reports whether Commit has run, for tests.
func (uow *UnitOfWorkImpl) IsCommitted() bool {
	uow.mu.RLock()
	defer uow.mu.RUnlock()
	return uow.committed
}

// EventCount returns the number of queued events, for tests.
func (uow *UnitOfWorkImpl) EventCount() int {
	uow.mu.RLock()
	defer uow.mu.RUnlock()
	return len(uow.events)
}
