package domain

import (
	"context"
	"regexp"
	"strings"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Organization is the aggregate root for a tenant-scoped group that owns
// projects and has members. Organizations own themselves (Owner() == ID())
// and act as the resource-owner for everything created beneath them.
type Organization struct {
	Entity
	name string
	slug string
}

// NewOrganization creates an organization within instanceID and emits
// OrganizationCreatedEvent.
func NewOrganization(ctx context.Context, instanceID, id, name, slug string) (*Organization, error) {
	if err := validateOrgName(name); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	o := &Organization{Entity: NewEntity(aggregateTypeOrganization, instanceID, id)}
	o.apply(NewOrganizationCreatedEvent(ctx, id, name, slug))
	return o, nil
}

// Rename changes the organization's display name.
func (o *Organization) Rename(ctx context.Context, newName string) error {
	if o.State() != StateActive {
		return NewNotActiveError(aggregateTypeOrganization, o.ID(), o.State())
	}
	if err := validateOrgName(newName); err != nil {
		return err
	}
	if o.name == newName {
		return NewNoChangesError(aggregateTypeOrganization, o.ID())
	}
	o.apply(NewOrganizationRenamedEvent(ctx, o.ID(), o.name, newName))
	return nil
}

// AddMember records userID joining with role. Membership is a projected
// edge, not state folded onto this aggregate, so neither this method nor
// AddOrganizationMemberHandler checks whether userID is already a member.
func (o *Organization) AddMember(ctx context.Context, userID, role string) error {
	if o.State() != StateActive {
		return NewNotActiveError(aggregateTypeOrganization, o.ID(), o.State())
	}
	if userID == "" {
		return NewValidationError("user_id", "user id cannot be empty", userID)
	}
	if role == "" {
		return NewValidationError("role", "role cannot be empty", role)
	}
	o.apply(NewOrganizationMemberAddedEvent(ctx, o.ID(), userID, role))
	return nil
}

// RemoveMember records userID leaving the organization.
func (o *Organization) RemoveMember(ctx context.Context, userID string) error {
	if o.State() != StateActive {
		return NewNotActiveError(aggregateTypeOrganization, o.ID(), o.State())
	}
	o.apply(NewOrganizationMemberRemovedEvent(ctx, o.ID(), userID))
	return nil
}

// Deactivate moves the organization to StateInactive.
func (o *Organization) Deactivate(ctx context.Context, reason string) error {
	if o.State() != StateActive {
		return NewNotActiveError(aggregateTypeOrganization, o.ID(), o.State())
	}
	o.apply(NewOrganizationDeactivatedEvent(ctx, o.ID(), reason))
	return nil
}

// Reactivate moves a StateInactive organization back to StateActive.
func (o *Organization) Reactivate(ctx context.Context) error {
	if o.State() != StateInactive {
		return NewNotActiveError(aggregateTypeOrganization, o.ID(), o.State())
	}
	o.apply(NewOrganizationReactivatedEvent(ctx, o.ID()))
	return nil
}

// Delete terminally deletes the organization.
func (o *Organization) Delete(ctx context.Context) error {
	if o.State() == StateDeleted {
		return NewNotActiveError(aggregateTypeOrganization, o.ID(), o.State())
	}
	o.apply(NewOrganizationDeletedEvent(ctx, o.ID()))
	return nil
}

func (o *Organization) Name() string { return o.name }
func (o *Organization) Slug() string { return o.slug }

func (o *Organization) apply(event Event) {
	o.foldEvent(event)
	o.AddEvent(event)
}

func (o *Organization) LoadFromHistory(events []Event) {
	for _, event := range events {
		o.foldEvent(event)
	}
	o.Entity.LoadFromHistory(events)
}

func (o *Organization) foldEvent(event Event) {
	switch e := event.(type) {
	case *OrganizationCreatedEvent:
		o.name = e.Name
		o.slug = e.Slug
	case *OrganizationRenamedEvent:
		o.name = e.NewName
	case *OrganizationDeactivatedEvent:
		o.SetState(StateInactive)
	case *OrganizationReactivatedEvent:
		o.SetState(StateActive)
	case *OrganizationDeletedEvent:
		o.SetState(StateDeleted)
	}
}

func validateOrgName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("name", "name cannot be empty", name)
	}
	if len(name) > 200 {
		return NewValidationError("name", "name cannot exceed 200 characters", name)
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return NewValidationError("slug", "slug cannot be empty", slug)
	}
	if len(slug) > 63 {
		return NewValidationError("slug", "slug cannot exceed 63 characters", slug)
	}
	if !slugPattern.MatchString(slug) {
		return NewValidationError("slug", "slug must be lowercase alphanumeric with single hyphens", slug)
	}
	return nil
}

// LoadOrganizationFromHistory reconstructs an Organization from its stored events.
func LoadOrganizationFromHistory(id string, events []Event) *Organization {
	o := &Organization{Entity: NewEntity(aggregateTypeOrganization, "", id)}
	o.LoadFromHistory(events)
	return o
}
