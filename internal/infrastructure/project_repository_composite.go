package infrastructure

import (
	"context"
	"errors"

	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
)

// ProjectRepositoryComposite implements domain.ProjectRepository by
// combining event-sourced persistence with the GORM read model for the
// slug lookups the eventstore cannot answer on its own.
type ProjectRepositoryComposite struct {
	eventSourcing *ProjectEventSourcingRepository
	readModel     *ProjectReadModelGORMRepository
}

func NewProjectRepositoryComposite(eventSourcing *ProjectEventSourcingRepository, readModel *ProjectReadModelGORMRepository) *ProjectRepositoryComposite {
	return &ProjectRepositoryComposite{eventSourcing: eventSourcing, readModel: readModel}
}

func (r *ProjectRepositoryComposite) Save(ctx context.Context, project *domain.Project) error {
	return r.eventSourcing.Save(ctx, project)
}

func (r *ProjectRepositoryComposite) Load(ctx context.Context, instanceID, id string) (*domain.Project, error) {
	return r.eventSourcing.Load(ctx, instanceID, id)
}

func (r *ProjectRepositoryComposite) FindBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (*domain.Project, error) {
	row, err := r.readModel.GetBySlug(ctx, instanceID, ownerOrgID, slug)
	if err != nil {
		return nil, err
	}
	return r.eventSourcing.Load(ctx, instanceID, row.ID)
}

func (r *ProjectRepositoryComposite) ExistsBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (bool, error) {
	_, err := r.readModel.GetBySlug(ctx, instanceID, ownerOrgID, slug)
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
func (r *ProjectRepositoryComposite) Exists(ctx context.Context, instanceID, id string) (bool, error) {
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
