package infrastructure

import (
	"context"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// OrganizationEventSourcingRepository implements the Save/Load half of
// domain.OrganizationRepository by replaying an organization's event stream.
type OrganizationEventSourcingRepository struct {
	eventStore domain.EventStore
	logger     domain.Logger
}

func NewOrganizationEventSourcingRepository(eventStore domain.EventStore, logger domain.Logger) *OrganizationEventSourcingRepository {
	return &OrganizationEventSourcingRepository{eventStore: eventStore, logger: logger}
}

func (r *OrganizationEventSourcingRepository) Save(ctx context.Context, org *domain.Organization) error {
	events := org.UncommittedEvents()
	if len(events) == 0 {
		r.logger.Debug("No uncommitted events to save", "organization_id", org.ID())
		return nil
	}

	r.logger.Debug("Saving organization events", "organization_id", org.ID(), "event_count", len(events))

	if _, err := r.eventStore.Push(ctx, events); err != nil {
		return fmt.Errorf("save organization events: %w", err)
	}

	org.MarkEventsAsCommitted()
	return nil
}

func (r *OrganizationEventSourcingRepository) Load(ctx context.Context, instanceID, id string) (*domain.Organization, error) {
	envelopes, err := r.eventStore.ReadAggregate(ctx, instanceID, "organization", id)
	if err != nil {
		return nil, fmt.Errorf("load organization events: %w", err)
	}
	if len(envelopes) == 0 {
		return nil, domain.NewNotFoundError("organization", id)
	}

	events := make([]domain.Event, len(envelopes))
	for i, envelope := range envelopes {
		events[i] = envelope.Event()
	}

	org := domain.LoadOrganizationFromHistory(id, events)
	return org, nil
}
