package infrastructure

import (
	"context"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// ProjectEventSourcingRepository implements the Save/Load half of
// domain.ProjectRepository by replaying a project's event stream.
type ProjectEventSourcingRepository struct {
	eventStore domain.EventStore
	logger     domain.Logger
}

func NewProjectEventSourcingRepository(eventStore domain.EventStore, logger domain.Logger) *ProjectEventSourcingRepository {
	return &ProjectEventSourcingRepository{eventStore: eventStore, logger: logger}
}

func (r *ProjectEventSourcingRepository) Save(ctx context.Context, project *domain.Project) error {
	events := project.UncommittedEvents()
	if len(events) == 0 {
		r.logger.Debug("No uncommitted events to save", "project_id", project.ID())
		return nil
	}

	r.logger.Debug("Saving project events", "project_id", project.ID(), "event_count", len(events))

	if _, err := r.eventStore.Push(ctx, events); err != nil {
		return fmt.Errorf("save project events: %w", err)
	}

	project.MarkEventsAsCommitted()
	return nil
}

func (r *ProjectEventSourcingRepository) Load(ctx context.Context, instanceID, id string) (*domain.Project, error) {
	envelopes, err := r.eventStore.ReadAggregate(ctx, instanceID, "project", id)
	if err != nil {
		return nil, fmt.Errorf("load project events: %w", err)
	}
	if len(envelopes) == 0 {
		return nil, domain.NewNotFoundError("project", id)
	}

	events := make([]domain.Event, len(envelopes))
	for i, envelope := range envelopes {
		events[i] = envelope.Event()
	}

	project := domain.LoadProjectFromHistory(id, events)
	return project, nil
}
