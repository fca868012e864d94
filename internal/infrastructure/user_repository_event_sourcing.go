package infrastructure

import (
	"context"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// UserEventSourcingRepository implements the Save/Load half of
// domain.UserRepository by replaying a user's event stream. It cannot
// answer FindByEmail/Exists* efficiently on its own; UserRepositoryComposite
// wraps it together with the read model for those lookups.
type UserEventSourcingRepository struct {
	eventStore domain.EventStore
	logger     domain.Logger
}

func NewUserEventSourcingRepository(eventStore domain.EventStore, logger domain.Logger) *UserEventSourcingRepository {
	return &UserEventSourcingRepository{eventStore: eventStore, logger: logger}
}

// Save persists the user aggregate's uncommitted events.
func (r *UserEventSourcingRepository) Save(ctx context.Context, user *domain.User) error {
	events := user.UncommittedEvents()
	if len(events) == 0 {
		r.logger.Debug("No uncommitted events to save", "user_id", user.ID())
		return nil
	}

	r.logger.Debug("Saving user events", "user_id", user.ID(), "event_count", len(events))

	if _, err := r.eventStore.Push(ctx, events); err != nil {
		return fmt.Errorf("save user events: %w", err)
	}

	user.MarkEventsAsCommitted()
	return nil
}

// Load reconstructs the user aggregate from its event history.
func (r *UserEventSourcingRepository) Load(ctx context.Context, instanceID, id string) (*domain.User, error) {
	envelopes, err := r.eventStore.ReadAggregate(ctx, instanceID, "user", id)
	if err != nil {
		return nil, fmt.Errorf("load user events: %w", err)
	}
	if len(envelopes) == 0 {
		return nil, domain.NewNotFoundError("user", id)
	}

	events := make([]domain.Event, len(envelopes))
	for i, envelope := range envelopes {
		events[i] = envelope.Event()
	}

	user := domain.LoadUserFromHistory(id, events)
	return user, nil
}
