package domain

import "context"

// Project is the aggregate root for a tenant-scoped, organization-owned
// unit of resource isolation. Its shape mirrors Organization, scaled down:
// create/rename/membership/lifecycle, no self-ownership.
type Project struct {
	Entity
	name       string
	slug       string
	ownerOrgID string
}

// NewProject creates a project within instanceID, owned by ownerOrgID.
func NewProject(ctx context.Context, instanceID, id, name, slug, ownerOrgID string) (*Project, error) {
	if err := validateOrgName(name); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if ownerOrgID == "" {
		return nil, NewValidationError("owner", "project must be owned by an organization", ownerOrgID)
	}

	p := &Project{Entity: NewEntity(aggregateTypeProject, instanceID, id)}
	p.apply(NewProjectCreatedEvent(ctx, id, name, slug, ownerOrgID))
	return p, nil
}

func (p *Project) Rename(ctx context.Context, newName string) error {
	if p.State() != StateActive {
		return NewNotActiveError(aggregateTypeProject, p.ID(), p.State())
	}
	if err := validateOrgName(newName); err != nil {
		return err
	}
	if p.name == newName {
		return NewNoChangesError(aggregateTypeProject, p.ID())
	}
	p.apply(NewProjectRenamedEvent(ctx, p.ID(), p.name, newName))
	return nil
}

func (p *Project) AddMember(ctx context.Context, userID, role string) error {
	if p.State() != StateActive {
		return NewNotActiveError(aggregateTypeProject, p.ID(), p.State())
	}
	if userID == "" {
		return NewValidationError("user_id", "user id cannot be empty", userID)
	}
	if role == "" {
		return NewValidationError("role", "role cannot be empty", role)
	}
	p.apply(NewProjectMemberAddedEvent(ctx, p.ID(), userID, role))
	return nil
}

func (p *Project) RemoveMember(ctx context.Context, userID string) error {
	if p.State() != StateActive {
		return NewNotActiveError(aggregateTypeProject, p.ID(), p.State())
	}
	p.apply(NewProjectMemberRemovedEvent(ctx, p.ID(), userID))
	return nil
}

func (p *Project) Deactivate(ctx context.Context, reason string) error {
	if p.State() != StateActive {
		return NewNotActiveError(aggregateTypeProject, p.ID(), p.State())
	}
	p.apply(NewProjectDeactivatedEvent(ctx, p.ID(), reason))
	return nil
}

func (p *Project) Reactivate(ctx context.Context) error {
	if p.State() != StateInactive {
		return NewNotActiveError(aggregateTypeProject, p.ID(), p.State())
	}
	p.apply(NewProjectReactivatedEvent(ctx, p.ID()))
	return nil
}

func (p *Project) Delete(ctx context.Context) error {
	if p.State() == StateDeleted {
		return NewNotActiveError(aggregateTypeProject, p.ID(), p.State())
	}
	p.apply(NewProjectDeletedEvent(ctx, p.ID()))
	return nil
}

func (p *Project) Name() string  { return p.name }
func (p *Project) Slug() string  { return p.slug }
func (p *Project) Owner() string { return p.ownerOrgID }

func (p *Project) apply(event Event) {
	p.foldEvent(event)
	p.AddEvent(event)
}

func (p *Project) LoadFromHistory(events []Event) {
	for _, event := range events {
		p.foldEvent(event)
	}
	p.Entity.LoadFromHistory(events)
}

func (p *Project) foldEvent(event Event) {
	switch e := event.(type) {
	case *ProjectCreatedEvent:
		p.name = e.Name
		p.slug = e.Slug
		p.ownerOrgID = e.Owner()
	case *ProjectRenamedEvent:
		p.name = e.NewName
	case *ProjectDeactivatedEvent:
		p.SetState(StateInactive)
	case *ProjectReactivatedEvent:
		p.SetState(StateActive)
	case *ProjectDeletedEvent:
		p.SetState(StateDeleted)
	}
}

// LoadProjectFromHistory reconstructs a Project from its stored events.
func LoadProjectFromHistory(id string, events []Event) *Project {
	p := &Project{Entity: NewEntity(aggregateTypeProject, "", id)}
	p.LoadFromHistory(events)
	return p
}
