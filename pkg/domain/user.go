package domain

import (
	"context"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User is the aggregate root for an IAM user account: an authentication
// subject scoped to one tenant instance and, optionally, owned by an
// organization within it.
type User struct {
	Entity
	email string
	name  string
}

// NewUser creates a user within instanceID, owned by owner (may be empty
// for instance-root users), and emits UserCreatedEvent.
func NewUser(ctx context.Context, instanceID, id, email, name, owner string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	u := &User{Entity: NewEntity(aggregateTypeUser, instanceID, id)}
	event := NewUserCreatedEvent(ctx, id, email, name, owner)
	u.apply(event)
	return u, nil
}

// UpdateEmail changes the user's email. Returns NoChangesError if the new
// value equals the current one, NotActiveError if the user isn't active.
func (u *User) UpdateEmail(ctx context.Context, newEmail string) error {
	if u.State() != StateActive {
		return NewNotActiveError(aggregateTypeUser, u.ID(), u.State())
	}
	if err := validateEmail(newEmail); err != nil {
		return err
	}
	if u.email == newEmail {
		return NewNoChangesError(aggregateTypeUser, u.ID())
	}

	event := NewUserEmailUpdatedEvent(ctx, u.ID(), u.email, newEmail)
	u.apply(event)
	return nil
}

// UpdateName changes the user's display name.
func (u *User) UpdateName(ctx context.Context, newName string) error {
	if u.State() != StateActive {
		return NewNotActiveError(aggregateTypeUser, u.ID(), u.State())
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if u.name == newName {
		return NewNoChangesError(aggregateTypeUser, u.ID())
	}

	event := NewUserNameUpdatedEvent(ctx, u.ID(), u.name, newName)
	u.apply(event)
	return nil
}

// Deactivate moves the user to StateInactive, rejecting further mutation
// until Reactivate.
func (u *User) Deactivate(ctx context.Context, reason string) error {
	if u.State() != StateActive {
		return NewNotActiveError(aggregateTypeUser, u.ID(), u.State())
	}
	u.apply(NewUserDeactivatedEvent(ctx, u.ID(), reason))
	return nil
}

// Reactivate moves a StateInactive user back to StateActive.
func (u *User) Reactivate(ctx context.Context) error {
	if u.State() != StateInactive {
		return NewNotActiveError(aggregateTypeUser, u.ID(), u.State())
	}
	u.apply(NewUserReactivatedEvent(ctx, u.ID()))
	return nil
}

// Delete terminally deletes the user. Idempotent against an already-deleted
// user only via NotActiveError, since deletion never re-fires.
func (u *User) Delete(ctx context.Context) error {
	if u.State() == StateDeleted {
		return NewNotActiveError(aggregateTypeUser, u.ID(), u.State())
	}
	u.apply(NewUserDeletedEvent(ctx, u.ID()))
	return nil
}

func (u *User) Email() string { return u.email }
func (u *User) Name() string  { return u.name }

// apply folds event into state and records it as uncommitted.
func (u *User) apply(event Event) {
	u.foldEvent(event)
	u.AddEvent(event)
}

// LoadFromHistory reconstructs the user from its full event history.
func (u *User) LoadFromHistory(events []Event) {
	for _, event := range events {
		u.foldEvent(event)
	}
	u.Entity.LoadFromHistory(events)
}

func (u *User) foldEvent(event Event) {
	switch e := event.(type) {
	case *UserCreatedEvent:
		u.email = e.Email
		u.name = e.Name
	case *UserEmailUpdatedEvent:
		u.email = e.NewEmail
	case *UserNameUpdatedEvent:
		u.name = e.NewName
	case *UserDeactivatedEvent:
		u.SetState(StateInactive)
	case *UserReactivatedEvent:
		u.SetState(StateActive)
	case *UserDeletedEvent:
		u.SetState(StateDeleted)
	}
}

func validateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "email cannot be empty", email)
	}
	email = strings.TrimSpace(email)
	if len(email) > 254 {
		return NewValidationError("email", "email cannot exceed 254 characters", email)
	}
	if !emailPattern.MatchString(email) {
		return NewValidationError("email", "invalid email format", email)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return NewValidationError("name", "name cannot be empty", name)
	}
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return NewValidationError("name", "name must be at least 2 characters long", name)
	}
	if len(name) > 100 {
		return NewValidationError("name", "name cannot exceed 100 characters", name)
	}
	return nil
}

// LoadUserFromHistory reconstructs a User aggregate from its stored events.
func LoadUserFromHistory(id string, events []Event) *User {
	u := &User{Entity: NewEntity(aggregateTypeUser, "", id)}
	u.LoadFromHistory(events)
	return u
}
