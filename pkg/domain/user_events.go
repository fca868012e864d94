package domain

import (
	"context"
	"encoding/json"
)

const aggregateTypeUser = "user"

// UserCreatedEvent records the creation of a user aggregate.
type UserCreatedEvent struct {
	EventMeta
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserCreatedEvent(ctx context.Context, aggregateID, email, name, owner string) *UserCreatedEvent {
	return &UserCreatedEvent{
		EventMeta: NewEventMeta(ctx, aggregateID).WithOwner(owner),
		Email:     email,
		Name:      name,
	}
}

func (e *UserCreatedEvent) EventType() string     { return "user.created" }
func (e *UserCreatedEvent) AggregateType() string  { return aggregateTypeUser }
func (e *UserCreatedEvent) Payload() []byte        { b, _ := json.Marshal(e); return b }

// UserEmailUpdatedEvent records a user's email changing.
type UserEmailUpdatedEvent struct {
	EventMeta
	OldEmail string `json:"old_email"`
	NewEmail string `json:"new_email"`
}

func NewUserEmailUpdatedEvent(ctx context.Context, aggregateID, oldEmail, newEmail string) *UserEmailUpdatedEvent {
	return &UserEmailUpdatedEvent{
		EventMeta: NewEventMeta(ctx, aggregateID),
		OldEmail:  oldEmail,
		NewEmail:  newEmail,
	}
}

func (e *UserEmailUpdatedEvent) EventType() string    { return "user.email_updated" }
func (e *UserEmailUpdatedEvent) AggregateType() string { return aggregateTypeUser }
func (e *UserEmailUpdatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// UserNameUpdatedEvent records a user's display name changing.
type UserNameUpdatedEvent struct {
	EventMeta
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

func NewUserNameUpdatedEvent(ctx context.Context, aggregateID, oldName, newName string) *UserNameUpdatedEvent {
	return &UserNameUpdatedEvent{
		EventMeta: NewEventMeta(ctx, aggregateID),
		OldName:   oldName,
		NewName:   newName,
	}
}

func (e *UserNameUpdatedEvent) EventType() string     { return "user.name_updated" }
func (e *UserNameUpdatedEvent) AggregateType() string { return aggregateTypeUser }
func (e *UserNameUpdatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// UserDeactivatedEvent records a user moving to StateInactive.
type UserDeactivatedEvent struct {
	EventMeta
	Reason string `json:"reason,omitempty"`
}

func NewUserDeactivatedEvent(ctx context.Context, aggregateID, reason string) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{EventMeta: NewEventMeta(ctx, aggregateID), Reason: reason}
}

func (e *UserDeactivatedEvent) EventType() string     { return "user.deactivated" }
func (e *UserDeactivatedEvent) AggregateType() string { return aggregateTypeUser }
func (e *UserDeactivatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// UserReactivatedEvent records a user returning to StateActive.
type UserReactivatedEvent struct {
	EventMeta
}

func NewUserReactivatedEvent(ctx context.Context, aggregateID string) *UserReactivatedEvent {
	return &UserReactivatedEvent{EventMeta: NewEventMeta(ctx, aggregateID)}
}

func (e *UserReactivatedEvent) EventType() string     { return "user.reactivated" }
func (e *UserReactivatedEvent) AggregateType() string { return aggregateTypeUser }
func (e *UserReactivatedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }

// UserDeletedEvent records a user's terminal deletion. Once applied, the
// aggregate accepts no further mutating commands.
type UserDeletedEvent struct {
	EventMeta
}

func NewUserDeletedEvent(ctx context.Context, aggregateID string) *UserDeletedEvent {
	return &UserDeletedEvent{EventMeta: NewEventMeta(ctx, aggregateID)}
}

func (e *UserDeletedEvent) EventType() string     { return "user.deleted" }
func (e *UserDeletedEvent) AggregateType() string { return aggregateTypeUser }
func (e *UserDeletedEvent) Payload() []byte       { b, _ := json.Marshal(e); return b }
