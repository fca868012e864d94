package application

import "context"

// OrganizationReadModel is the query-optimized projection of an organization.
type OrganizationReadModel struct {
	ID         string
	InstanceID string
	Name       string
	Slug       string
	State      string
	Version    int64
}

// OrganizationReadModelRepository queries organization read models.
type OrganizationReadModelRepository interface {
	GetByID(ctx context.Context, instanceID, id string) (*OrganizationReadModel, error)
	GetBySlug(ctx context.Context, instanceID, slug string) (*OrganizationReadModel, error)
	List(ctx context.Context, instanceID string, page, pageSize int) ([]OrganizationReadModel, int, error)
	Save(ctx context.Context, org *OrganizationReadModel) error
	Delete(ctx context.Context, instanceID, id string) error
	Count(ctx context.Context, instanceID string) (int, error)
}

// ToDTO converts an OrganizationReadModel to an OrganizationDTO.
func (o *OrganizationReadModel) ToDTO() OrganizationDTO {
	return OrganizationDTO{
		ID:         o.ID,
		InstanceID: o.InstanceID,
		Name:       o.Name,
		Slug:       o.Slug,
		State:      o.State,
		Version:    o.Version,
	}
}
