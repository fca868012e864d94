package infrastructure

import (
	"encoding/json"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// eventFactory builds a zero-value pointer to a concrete event type so its
// exported fields can be populated by json.Unmarshal.
type eventFactory func() domain.Event

// eventRegistry maps a stored EventType string to the concrete struct that
// deserializes it. Event types not found here fall back to domain.EntityEvent
// so a newer writer's event type never breaks an older reader.
var eventRegistry = map[string]eventFactory{
	"user.created":       func() domain.Event { return &domain.UserCreatedEvent{} },
	"user.email_updated": func() domain.Event { return &domain.UserEmailUpdatedEvent{} },
	"user.name_updated":  func() domain.Event { return &domain.UserNameUpdatedEvent{} },
	"user.deactivated":   func() domain.Event { return &domain.UserDeactivatedEvent{} },
	"user.reactivated":   func() domain.Event { return &domain.UserReactivatedEvent{} },
	"user.deleted":       func() domain.Event { return &domain.UserDeletedEvent{} },

	"organization.created":        func() domain.Event { return &domain.OrganizationCreatedEvent{} },
	"organization.renamed":        func() domain.Event { return &domain.OrganizationRenamedEvent{} },
	"organization.member_added":   func() domain.Event { return &domain.OrganizationMemberAddedEvent{} },
	"organization.member_removed": func() domain.Event { return &domain.OrganizationMemberRemovedEvent{} },
	"organization.deactivated":    func() domain.Event { return &domain.OrganizationDeactivatedEvent{} },
	"organization.reactivated":    func() domain.Event { return &domain.OrganizationReactivatedEvent{} },
	"organization.deleted":        func() domain.Event { return &domain.OrganizationDeletedEvent{} },

	"project.created":        func() domain.Event { return &domain.ProjectCreatedEvent{} },
	"project.renamed":        func() domain.Event { return &domain.ProjectRenamedEvent{} },
	"project.member_added":   func() domain.Event { return &domain.ProjectMemberAddedEvent{} },
	"project.member_removed": func() domain.Event { return &domain.ProjectMemberRemovedEvent{} },
	"project.deactivated":    func() domain.Event { return &domain.ProjectDeactivatedEvent{} },
	"project.reactivated":    func() domain.Event { return &domain.ProjectReactivatedEvent{} },
	"project.deleted":        func() domain.Event { return &domain.ProjectDeletedEvent{} },
}

// RegisterEventType lets callers outside this package extend the registry
// for event types this module doesn't know about.
func RegisterEventType(eventType string, factory func() domain.Event) {
	eventRegistry[eventType] = factory
}

// reconstructEvent builds the concrete, hydrated Event for a stored record.
func reconstructEvent(record EventRecord) (domain.Event, error) {
	factory, ok := eventRegistry[record.EventType]
	var event domain.Event
	if ok {
		event = factory()
	} else {
		event = &domain.EntityEvent{}
	}

	if len(record.Data) > 0 {
		if err := json.Unmarshal([]byte(record.Data), event); err != nil {
			return nil, fmt.Errorf("unmarshal event %s (%s): %w", record.ID, record.EventType, err)
		}
	}

	if hydratable, ok := event.(domain.Hydratable); ok {
		hydratable.Hydrate(record.AggregateID, record.InstanceID, record.Owner, record.Creator, record.SequenceNo, record.OccurredAt)
		return event, nil
	}

	// domain.EntityEvent isn't Hydratable (it has exported fields set
	// directly by json.Unmarshal); fill in what Unmarshal couldn't know
	// from the column data alone.
	if generic, ok := event.(*domain.EntityEvent); ok {
		generic.AggregateId = record.AggregateID
		generic.InstanceId = record.InstanceID
		generic.OwnerId = record.Owner
		generic.CreatorId = record.Creator
		generic.SequenceNum = record.SequenceNo
		generic.CreatedTime = record.OccurredAt
		if generic.EntityType == "" {
			generic.EntityType = record.AggregateType
		}
	}

	return event, nil
}
