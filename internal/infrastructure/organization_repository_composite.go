package infrastructure

import (
	"context"
	"errors"

	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
)

// OrganizationRepositoryComposite implements domain.OrganizationRepository by
// combining event-sourced persistence with the GORM read model for the
// slug lookups the eventstore cannot answer on its own.
type OrganizationRepositoryComposite struct {
	eventSourcing *OrganizationEventSourcingRepository
	readModel     *OrganizationReadModelGORMRepository
}

func NewOrganizationRepositoryComposite(eventSourcing *OrganizationEventSourcingRepository, readModel *OrganizationReadModelGORMRepository) *OrganizationRepositoryComposite {
	return &OrganizationRepositoryComposite{eventSourcing: eventSourcing, readModel: readModel}
}

func (r *OrganizationRepositoryComposite) Save(ctx context.Context, org *domain.Organization) error {
	return r.eventSourcing.Save(ctx, org)
}

func (r *OrganizationRepositoryComposite) Load(ctx context.Context, instanceID, id string) (*domain.Organization, error) {
	return r.eventSourcing.Load(ctx, instanceID, id)
}

func (r *OrganizationRepositoryComposite) FindBySlug(ctx context.Context, instanceID, slug string) (*domain.Organization, error) {
	row, err := r.readModel.GetBySlug(ctx, instanceID, slug)
	if err != nil {
		return nil, err
	}
	return r.eventSourcing.Load(ctx, instanceID, row.ID)
}

func (r *OrganizationRepositoryComposite) ExistsBySlug(ctx context.Context, instanceID, slug string) (bool, error) {
	_, err := r.readModel.GetBySlug(ctx, instanceID, slug)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Exists answers from the aggregate's own event history, not the read-model
// projection, which is updated asynchronously and would let a replayed
// create race ahead of the projection worker and see exists=false.
func (r *OrganizationRepositoryComposite) Exists(ctx context.Context, instanceID, id string) (bool, error) {
	_, err := r.eventSourcing.Load(ctx, instanceID, id)
	if err == nil {
		return true, nil
	}
	var notFound domain.NotFoundError
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, err
}
