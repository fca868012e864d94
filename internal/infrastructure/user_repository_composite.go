package infrastructure

import (
	"context"
	"errors"

	"github.com/coreidentity/iamcore/pkg/domain"
	"gorm.io/gorm"
)

// UserRepositoryComposite implements domain.UserRepository by combining
// event-sourced persistence with the GORM read model for the natural-key
// lookups the eventstore cannot answer on its own.
type UserRepositoryComposite struct {
	eventSourcing *UserEventSourcingRepository
	readModel     *UserReadModelGORMRepository
}

func NewUserRepositoryComposite(eventSourcing *UserEventSourcingRepository, readModel *UserReadModelGORMRepository) *UserRepositoryComposite {
	return &UserRepositoryComposite{eventSourcing: eventSourcing, readModel: readModel}
}

func (r *UserRepositoryComposite) Save(ctx context.Context, user *domain.User) error {
	return r.eventSourcing.Save(ctx, user)
}

func (r *UserRepositoryComposite) Load(ctx context.Context, instanceID, id string) (*domain.User, error) {
	return r.eventSourcing.Load(ctx, instanceID, id)
}

func (r *UserRepositoryComposite) FindByEmail(ctx context.Context, instanceID, email string) (*domain.User, error) {
	row, err := r.readModel.GetByEmail(ctx, instanceID, email)
	if err != nil {
		return nil, err
	}
	return r.eventSourcing.Load(ctx, instanceID, row.ID)
}

// Exists answers from the aggregate's own event history, not the read-model
// projection: the projection is updated asynchronously, so a check against
// it would let a replayed create race ahead of the projection worker and
// see exists=false.
func (r *UserRepositoryComposite) Exists(ctx context.Context, instanceID, id string) (bool, error) {
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

func (r *UserRepositoryComposite) ExistsByEmail(ctx context.Context, instanceID, email string) (bool, error) {
	_, err := r.readModel.GetByEmail(ctx, instanceID, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
