package application

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserReadModelRepository struct {
	byID    map[string]*UserReadModel
	byEmail map[string]*UserReadModel
}

func newFakeUserReadModelRepository() *fakeUserReadModelRepository {
	return &fakeUserReadModelRepository{byID: map[string]*UserReadModel{}, byEmail: map[string]*UserReadModel{}}
}

func (r *fakeUserReadModelRepository) GetByID(ctx context.Context, instanceID, id string) (*UserReadModel, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}
	return u, nil
}

func (r *fakeUserReadModelRepository) GetByEmail(ctx context.Context, instanceID, email string) (*UserReadModel, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.NewNotFoundError("user", email)
	}
	return u, nil
}

func (r *fakeUserReadModelRepository) List(ctx context.Context, instanceID string, page, pageSize int) ([]UserReadModel, int, error) {
	all := make([]UserReadModel, 0, len(r.byID))
	for _, u := range r.byID {
		all = append(all, *u)
	}
	return all, len(all), nil
}

func (r *fakeUserReadModelRepository) Save(ctx context.Context, user *UserReadModel) error {
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserReadModelRepository) Delete(ctx context.Context, instanceID, id string) error {
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeUserReadModelRepository) Count(ctx context.Context, instanceID string) (int, error) {
	return len(r.byID), nil
}

func TestGetUserHandler_ReturnsNotFoundForMissingID(t *testing.T) {
	repo := newFakeUserReadModelRepository()
	handler := NewGetUserHandler(repo)

	_, err := handler.Handle(context.Background(), noopLogger{}, GetUserQuery{InstanceID: "inst-1", ID: "missing"})
	require.Error(t, err)
	assert.IsType(t, ApplicationError{}, err)
}

func TestGetUserByEmailHandler_ReturnsDTO(t *testing.T) {
	repo := newFakeUserReadModelRepository()
	require.NoError(t, repo.Save(context.Background(), &UserReadModel{ID: "user-1", InstanceID: "inst-1", Email: "ada@example.com", Name: "Ada"}))

	handler := NewGetUserByEmailHandler(repo)
	dto, err := handler.Handle(context.Background(), noopLogger{}, GetUserByEmailQuery{InstanceID: "inst-1", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", dto.ID)
}

func TestListUsersHandler_PaginatesTotalPages(t *testing.T) {
	repo := newFakeUserReadModelRepository()
	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		require.NoError(t, repo.Save(context.Background(), &UserReadModel{ID: id, InstanceID: "inst-1", Email: id + "@example.com"}))
	}

	handler := NewListUsersHandler(repo)
	result, err := handler.Handle(context.Background(), noopLogger{}, ListUsersQuery{InstanceID: "inst-1", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Users, 3)
}

type fakeOrganizationReadModelRepository struct {
	byID   map[string]*OrganizationReadModel
	bySlug map[string]*OrganizationReadModel
}

func newFakeOrganizationReadModelRepository() *fakeOrganizationReadModelRepository {
	return &fakeOrganizationReadModelRepository{byID: map[string]*OrganizationReadModel{}, bySlug: map[string]*OrganizationReadModel{}}
}

func (r *fakeOrganizationReadModelRepository) GetByID(ctx context.Context, instanceID, id string) (*OrganizationReadModel, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("organization", id)
	}
	return o, nil
}

func (r *fakeOrganizationReadModelRepository) GetBySlug(ctx context.Context, instanceID, slug string) (*OrganizationReadModel, error) {
	o, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.NewNotFoundError("organization", slug)
	}
	return o, nil
}

func (r *fakeOrganizationReadModelRepository) List(ctx context.Context, instanceID string, page, pageSize int) ([]OrganizationReadModel, int, error) {
	all := make([]OrganizationReadModel, 0, len(r.byID))
	for _, o := range r.byID {
		all = append(all, *o)
	}
	return all, len(all), nil
}

func (r *fakeOrganizationReadModelRepository) Save(ctx context.Context, org *OrganizationReadModel) error {
	r.byID[org.ID] = org
	r.bySlug[org.Slug] = org
	return nil
}

func (r *fakeOrganizationReadModelRepository) Delete(ctx context.Context, instanceID, id string) error {
	if o, ok := r.byID[id]; ok {
		delete(r.bySlug, o.Slug)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeOrganizationReadModelRepository) Count(ctx context.Context, instanceID string) (int, error) {
	return len(r.byID), nil
}

func TestGetOrganizationHandler_ReturnsNotFound(t *testing.T) {
	repo := newFakeOrganizationReadModelRepository()
	handler := NewGetOrganizationHandler(repo)

	_, err := handler.Handle(context.Background(), noopLogger{}, GetOrganizationQuery{InstanceID: "inst-1", ID: "missing"})
	require.Error(t, err)
}

func TestListOrganizationsHandler_ReturnsDTOs(t *testing.T) {
	repo := newFakeOrganizationReadModelRepository()
	require.NoError(t, repo.Save(context.Background(), &OrganizationReadModel{ID: "org-1", InstanceID: "inst-1", Name: "Acme", Slug: "acme"}))

	handler := NewListOrganizationsHandler(repo)
	result, err := handler.Handle(context.Background(), noopLogger{}, ListOrganizationsQuery{InstanceID: "inst-1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, result.Organizations, 1)
	assert.Equal(t, "acme", result.Organizations[0].Slug)
}

type fakeProjectReadModelRepository struct {
	byID map[string]*ProjectReadModel
}

func newFakeProjectReadModelRepository() *fakeProjectReadModelRepository {
	return &fakeProjectReadModelRepository{byID: map[string]*ProjectReadModel{}}
}

func (r *fakeProjectReadModelRepository) GetByID(ctx context.Context, instanceID, id string) (*ProjectReadModel, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("project", id)
	}
	return p, nil
}

func (r *fakeProjectReadModelRepository) GetBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (*ProjectReadModel, error) {
	for _, p := range r.byID {
		if p.OwnerOrgID == ownerOrgID && p.Slug == slug {
			return p, nil
		}
	}
	return nil, domain.NewNotFoundError("project", slug)
}

func (r *fakeProjectReadModelRepository) ListByOwner(ctx context.Context, instanceID, ownerOrgID string, page, pageSize int) ([]ProjectReadModel, int, error) {
	var owned []ProjectReadModel
	for _, p := range r.byID {
		if p.OwnerOrgID == ownerOrgID {
			owned = append(owned, *p)
		}
	}
	return owned, len(owned), nil
}

func (r *fakeProjectReadModelRepository) Save(ctx context.Context, project *ProjectReadModel) error {
	r.byID[project.ID] = project
	return nil
}

func (r *fakeProjectReadModelRepository) Delete(ctx context.Context, instanceID, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *fakeProjectReadModelRepository) Count(ctx context.Context, instanceID string) (int, error) {
	return len(r.byID), nil
}

func TestGetProjectHandler_ReturnsNotFound(t *testing.T) {
	repo := newFakeProjectReadModelRepository()
	handler := NewGetProjectHandler(repo)

	_, err := handler.Handle(context.Background(), noopLogger{}, GetProjectQuery{InstanceID: "inst-1", ID: "missing"})
	require.Error(t, err)
}

func TestListProjectsHandler_ScopesToOwner(t *testing.T) {
	repo := newFakeProjectReadModelRepository()
	require.NoError(t, repo.Save(context.Background(), &ProjectReadModel{ID: "proj-1", InstanceID: "inst-1", Slug: "widgets", OwnerOrgID: "org-1"}))
	require.NoError(t, repo.Save(context.Background(), &ProjectReadModel{ID: "proj-2", InstanceID: "inst-1", Slug: "gadgets", OwnerOrgID: "org-2"}))

	handler := NewListProjectsHandler(repo)
	result, err := handler.Handle(context.Background(), noopLogger{}, ListProjectsQuery{InstanceID: "inst-1", OwnerOrgID: "org-1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.Equal(t, "widgets", result.Projects[0].Slug)
}
