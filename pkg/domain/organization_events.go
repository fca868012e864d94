package domain

import (
	"context"
	"encoding/json"
)

const aggregateTypeOrganization = "organization"

// OrganizationCreatedEvent records the creation of an organization
// aggregate. Organizations own themselves: Owner() on this event is the
// organization's own ID.
type OrganizationCreatedEvent struct {
	EventMeta
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewOrganizationCreatedEvent(ctx context.Context, aggregateID, name, slug string) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		EventMeta: NewEventMeta(ctx, aggregateID).WithOwner(aggregateID),
		Name:      name,
		Slug:      slug,
	}
}

func (e *OrganizationCreatedEvent) EventType() string     { return "organization.created" }
func (e *OrganizationCreatedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationCreatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// OrganizationRenamedEvent records an organization's display name changing.
type OrganizationRenamedEvent struct {
	EventMeta
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

func NewOrganizationRenamedEvent(ctx context.Context, aggregateID, oldName, newName string) *OrganizationRenamedEvent {
	return &OrganizationRenamedEvent{
		EventMeta: NewEventMeta(ctx, aggregateID),
		OldName:   oldName,
		NewName:   newName,
	}
}

func (e *OrganizationRenamedEvent) EventType() string     { return "organization.renamed" }
func (e *OrganizationRenamedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationRenamedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// OrganizationMemberAddedEvent records a user joining an organization with a
// role. Projected into the organization_members edge table; never stored as a
// reference on either aggregate.
type OrganizationMemberAddedEvent struct {
	EventMeta
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func NewOrganizationMemberAddedEvent(ctx context.Context, aggregateID, userID, role string) *OrganizationMemberAddedEvent {
	return &OrganizationMemberAddedEvent{EventMeta: NewEventMeta(ctx, aggregateID), UserID: userID, Role: role}
}

func (e *OrganizationMemberAddedEvent) EventType() string     { return "organization.member_added" }
func (e *OrganizationMemberAddedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationMemberAddedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// OrganizationMemberRemovedEvent records a user leaving an organization.
type OrganizationMemberRemovedEvent struct {
	EventMeta
	UserID string `json:"user_id"`
}

func NewOrganizationMemberRemovedEvent(ctx context.Context, aggregateID, userID string) *OrganizationMemberRemovedEvent {
	return &OrganizationMemberRemovedEvent{EventMeta: NewEventMeta(ctx, aggregateID), UserID: userID}
}

func (e *OrganizationMemberRemovedEvent) EventType() string     { return "organization.member_removed" }
func (e *OrganizationMemberRemovedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationMemberRemovedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// OrganizationDeactivatedEvent records an organization moving to StateInactive.
type OrganizationDeactivatedEvent struct {
	EventMeta
	Reason string `json:"reason,omitempty"`
}

func NewOrganizationDeactivatedEvent(ctx context.Context, aggregateID, reason string) *OrganizationDeactivatedEvent {
	return &OrganizationDeactivatedEvent{EventMeta: NewEventMeta(ctx, aggregateID), Reason: reason}
}

func (e *OrganizationDeactivatedEvent) EventType() string     { return "organization.deactivated" }
func (e *OrganizationDeactivatedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationDeactivatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// OrganizationReactivatedEvent records an organization returning to StateActive.
type OrganizationReactivatedEvent struct {
	EventMeta
}

func NewOrganizationReactivatedEvent(ctx context.Context, aggregateID string) *OrganizationReactivatedEvent {
	return &OrganizationReactivatedEvent{EventMeta: NewEventMeta(ctx, aggregateID)}
}

func (e *OrganizationReactivatedEvent) EventType() string     { return "organization.reactivated" }
func (e *OrganizationReactivatedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationReactivatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// OrganizationDeletedEvent records an organization's terminal deletion.
type OrganizationDeletedEvent struct {
	EventMeta
}

func NewOrganizationDeletedEvent(ctx context.Context, aggregateID string) *OrganizationDeletedEvent {
	return &OrganizationDeletedEvent{EventMeta: NewEventMeta(ctx, aggregateID)}
}

func (e *OrganizationDeletedEvent) EventType() string     { return "organization.deleted" }
func (e *OrganizationDeletedEvent) AggregateType() string { return aggregateTypeOrganization }
func (e *OrganizationDeletedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }
