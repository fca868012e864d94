package domain

import (
	"context"
	"encoding/json"
)

const aggregateTypeProject = "project"

// ProjectCreatedEvent records the creation of a project owned by an
// organization.
type ProjectCreatedEvent struct {
	EventMeta
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func NewProjectCreatedEvent(ctx context.Context, aggregateID, name, slug, owner string) *ProjectCreatedEvent {
	return &ProjectCreatedEvent{
		EventMeta: NewEventMeta(ctx, aggregateID).WithOwner(owner),
		Name:      name,
		Slug:      slug,
	}
}

func (e *ProjectCreatedEvent) EventType() string     { return "project.created" }
func (e *ProjectCreatedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectCreatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// ProjectRenamedEvent records a project's display name changing.
type ProjectRenamedEvent struct {
	EventMeta
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

func NewProjectRenamedEvent(ctx context.Context, aggregateID, oldName, newName string) *ProjectRenamedEvent {
	return &ProjectRenamedEvent{EventMeta: NewEventMeta(ctx, aggregateID), OldName: oldName, NewName: newName}
}

func (e *ProjectRenamedEvent) EventType() string     { return "project.renamed" }
func (e *ProjectRenamedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectRenamedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// ProjectMemberAddedEvent records a user being granted a role on a project.
type ProjectMemberAddedEvent struct {
	EventMeta
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func NewProjectMemberAddedEvent(ctx context.Context, aggregateID, userID, role string) *ProjectMemberAddedEvent {
	return &ProjectMemberAddedEvent{EventMeta: NewEventMeta(ctx, aggregateID), UserID: userID, Role: role}
}

func (e *ProjectMemberAddedEvent) EventType() string     { return "project.member_added" }
func (e *ProjectMemberAddedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectMemberAddedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// ProjectMemberRemovedEvent records a user's project membership ending.
type ProjectMemberRemovedEvent struct {
	EventMeta
	UserID string `json:"user_id"`
}

func NewProjectMemberRemovedEvent(ctx context.Context, aggregateID, userID string) *ProjectMemberRemovedEvent {
	return &ProjectMemberRemovedEvent{EventMeta: NewEventMeta(ctx, aggregateID), UserID: userID}
}

func (e *ProjectMemberRemovedEvent) EventType() string     { return "project.member_removed" }
func (e *ProjectMemberRemovedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectMemberRemovedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// ProjectDeactivatedEvent records a project moving to StateInactive.
type ProjectDeactivatedEvent struct {
	EventMeta
	Reason string `json:"reason,omitempty"`
}

func NewProjectDeactivatedEvent(ctx context.Context, aggregateID, reason string) *ProjectDeactivatedEvent {
	return &ProjectDeactivatedEvent{EventMeta: NewEventMeta(ctx, aggregateID), Reason: reason}
}

func (e *ProjectDeactivatedEvent) EventType() string     { return "project.deactivated" }
func (e *ProjectDeactivatedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectDeactivatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// ProjectReactivatedEvent records a project returning to StateActive.
type ProjectReactivatedEvent struct {
	EventMeta
}

func NewProjectReactivatedEvent(ctx context.Context, aggregateID string) *ProjectReactivatedEvent {
	return &ProjectReactivatedEvent{EventMeta: NewEventMeta(ctx, aggregateID)}
}

func (e *ProjectReactivatedEvent) EventType() string     { return "project.reactivated" }
func (e *ProjectReactivatedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectReactivatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// ProjectDeletedEvent records a project's terminal deletion.
type ProjectDeletedEvent struct {
	EventMeta
}

func NewProjectDeletedEvent(ctx context.Context, aggregateID string) *ProjectDeletedEvent {
	return &ProjectDeletedEvent{EventMeta: NewEventMeta(ctx, aggregateID)}
}

func (e *ProjectDeletedEvent) EventType() string     { return "project.deleted" }
func (e *ProjectDeletedEvent) AggregateType() string { return aggregateTypeProject }
func (e *ProjectDeletedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }
