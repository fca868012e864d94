package application

import "context"

// ProjectReadModel is the query-optimized projection of a project.
type ProjectReadModel struct {
	ID         string
	InstanceID string
	Name       string
	Slug       string
	OwnerOrgID string
	State      string
	Version    int64
}

// ProjectReadModelRepository queries project read models.
type ProjectReadModelRepository interface {
	GetByID(ctx context.Context, instanceID, id string) (*ProjectReadModel, error)
	GetBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (*ProjectReadModel, error)
	ListByOwner(ctx context.Context, instanceID, ownerOrgID string, page, pageSize int) ([]ProjectReadModel, int, error)
	Save(ctx context.Context, project *ProjectReadModel) error
	Delete(ctx context.Context, instanceID, id string) error
	Count(ctx context.Context, instanceID string) (int, error)
}

// ToDTO converts a ProjectReadModel to a ProjectDTO.
func (p *ProjectReadModel) ToDTO() ProjectDTO {
	return ProjectDTO{
		ID:         p.ID,
		InstanceID: p.InstanceID,
		Name:       p.Name,
		Slug:       p.Slug,
		OwnerOrgID: p.OwnerOrgID,
		State:      p.State,
		Version:    p.Version,
	}
}
