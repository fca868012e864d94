package application

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProjectRepository struct {
	byID    map[string]*domain.Project
	bySlug  map[string]string
	history map[string][]domain.Event
}

func newFakeProjectRepository() *fakeProjectRepository {
	return &fakeProjectRepository{
		byID:    map[string]*domain.Project{},
		bySlug:  map[string]string{},
		history: map[string][]domain.Event{},
	}
}

func projectSlugKey(ownerOrgID, slug string) string { return ownerOrgID + "/" + slug }

func (r *fakeProjectRepository) Save(ctx context.Context, project *domain.Project) error {
	r.byID[project.ID()] = project
	r.bySlug[projectSlugKey(project.Owner(), project.Slug())] = project.ID()
	project.MarkEventsAsCommitted()
	return nil
}

func (r *fakeProjectRepository) applyEvents(events []domain.Event) {
	if len(events) == 0 {
		return
	}
	id := events[0].AggregateID()
	r.history[id] = append(r.history[id], events...)
	project := domain.LoadProjectFromHistory(id, r.history[id])
	r.byID[id] = project
	r.bySlug[projectSlugKey(project.Owner(), project.Slug())] = id
}

func (r *fakeProjectRepository) Load(ctx context.Context, instanceID, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("project", id)
	}
	return p, nil
}

func (r *fakeProjectRepository) FindBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (*domain.Project, error) {
	id, ok := r.bySlug[projectSlugKey(ownerOrgID, slug)]
	if !ok {
		return nil, domain.NewNotFoundError("project", slug)
	}
	return r.byID[id], nil
}

func (r *fakeProjectRepository) ExistsBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (bool, error) {
	_, ok := r.bySlug[projectSlugKey(ownerOrgID, slug)]
	return ok, nil
}

func (r *fakeProjectRepository) Exists(ctx context.Context, instanceID, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func TestCreateProjectHandler_RejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepository()
	handler := NewCreateProjectHandler(repo, uowFactory(repo.applyEvents))

	cmd := CreateProjectCommand{InstanceID: "inst-1", ID: "proj-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1"}
	require.NoError(t, handler.Handle(ctx, noopLogger{}, cmd))

	dup := CreateProjectCommand{InstanceID: "inst-1", ID: "proj-1", Name: "Widgets Renamed", Slug: "widgets-two", OwnerOrgID: "org-1"}
	err := handler.Handle(ctx, noopLogger{}, dup)
	require.Error(t, err)
	appErr, ok := err.(ApplicationError)
	require.True(t, ok)
	assert.Equal(t, "PROJECT_ALREADY_EXISTS", appErr.Code)
}

func TestCreateProjectHandler_RejectsDuplicateSlugWithinOwner(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepository()
	handler := NewCreateProjectHandler(repo, uowFactory(repo.applyEvents))

	cmd := CreateProjectCommand{InstanceID: "inst-1", ID: "proj-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1"}
	require.NoError(t, handler.Handle(ctx, noopLogger{}, cmd))

	dup := CreateProjectCommand{InstanceID: "inst-1", ID: "proj-2", Name: "Widgets Two", Slug: "widgets", OwnerOrgID: "org-1"}
	err := handler.Handle(ctx, noopLogger{}, dup)
	require.Error(t, err)
	assert.IsType(t, ApplicationError{}, err)

	otherOrg := CreateProjectCommand{InstanceID: "inst-1", ID: "proj-3", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-2"}
	require.NoError(t, handler.Handle(ctx, noopLogger{}, otherOrg))
}

func TestRenameProjectHandler_UpdatesName(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepository()
	factory := uowFactory(repo.applyEvents)
	createHandler := NewCreateProjectHandler(repo, factory)
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1",
	}))

	renameHandler := NewRenameProjectHandler(repo, factory)
	require.NoError(t, renameHandler.Handle(ctx, noopLogger{}, RenameProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", NewName: "Widgets Inc",
	}))

	project, err := repo.Load(ctx, "inst-1", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, "Widgets Inc", project.Name())
}

func TestProjectMemberHandlers_AddAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepository()
	factory := uowFactory(repo.applyEvents)
	createHandler := NewCreateProjectHandler(repo, factory)
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1",
	}))

	addHandler := NewAddProjectMemberHandler(repo, factory)
	require.NoError(t, addHandler.Handle(ctx, noopLogger{}, AddProjectMemberCommand{
		InstanceID: "inst-1", ID: "proj-1", UserID: "user-1", Role: "contributor",
	}))

	removeHandler := NewRemoveProjectMemberHandler(repo, factory)
	require.NoError(t, removeHandler.Handle(ctx, noopLogger{}, RemoveProjectMemberCommand{
		InstanceID: "inst-1", ID: "proj-1", UserID: "user-1",
	}))

	err := removeHandler.Handle(ctx, noopLogger{}, RemoveProjectMemberCommand{
		InstanceID: "inst-1", ID: "proj-1", UserID: "user-1",
	})
	require.Error(t, err)
}

func TestDeactivateProjectHandler_RejectsOnSecondCall(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepository()
	factory := uowFactory(repo.applyEvents)
	createHandler := NewCreateProjectHandler(repo, factory)
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1",
	}))

	deactivateHandler := NewDeactivateProjectHandler(repo, factory)
	require.NoError(t, deactivateHandler.Handle(ctx, noopLogger{}, DeactivateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Reason: "policy",
	}))

	project, err := repo.Load(ctx, "inst-1", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateInactive, project.State())

	err = deactivateHandler.Handle(ctx, noopLogger{}, DeactivateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Reason: "policy",
	})
	require.Error(t, err)
}

func TestReactivateProjectHandler_RestoresActiveState(t *testing.T) {
	ctx := context.Background()
	repo := newFakeProjectRepository()
	factory := uowFactory(repo.applyEvents)
	createHandler := NewCreateProjectHandler(repo, factory)
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1",
	}))

	deactivateHandler := NewDeactivateProjectHandler(repo, factory)
	require.NoError(t, deactivateHandler.Handle(ctx, noopLogger{}, DeactivateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1", Reason: "policy",
	}))

	reactivateHandler := NewReactivateProjectHandler(repo, factory)
	require.NoError(t, reactivateHandler.Handle(ctx, noopLogger{}, ReactivateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1",
	}))

	project, err := repo.Load(ctx, "inst-1", "proj-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, project.State())

	err = reactivateHandler.Handle(ctx, noopLogger{}, ReactivateProjectCommand{
		InstanceID: "inst-1", ID: "proj-1",
	})
	require.Error(t, err)
}
