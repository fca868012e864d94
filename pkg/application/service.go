package application

import (
	"context"
	"fmt"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// ApplicationService provides base functionality for application services
type ApplicationService struct {
	unitOfWork domain.UnitOfWorkFactory
	logger     domain.Logger
}

// NewApplicationService creates a new application service with UnitOfWork integration
func NewApplicationService(unitOfWork domain.UnitOfWorkFactory, logger domain.Logger) *ApplicationService {
	return &ApplicationService{
		unitOfWork: unitOfWork,
		logger:     logger,
	}
}

// ExecuteInTransaction executes a function within a fresh unit of work, built
// for this call only. A UnitOfWork commits once and panics on reuse, so a new
// one is drawn from the factory on every invocation instead of held as a field.
func (s *ApplicationService) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context, uow domain.UnitOfWork) error) error {
	s.logger.Debug("Starting transaction")

	uow := s.unitOfWork()
	err := fn(ctx, uow)
	if err != nil {
		s.logger.Error("Transaction failed, rolling back", "error", err)
		if rollbackErr := uow.Rollback(); rollbackErr != nil {
			s.logger.Error("Failed to rollback transaction", "error", rollbackErr)
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	s.logger.Debug("Committing transaction")
	envelopes, err := uow.Commit(ctx)
	if err != nil {
		s.logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Transaction committed successfully", "events_count", len(envelopes))
	return nil
}

// GetUnitOfWork returns a fresh unit of work instance, single-use like the one
// ExecuteInTransaction draws from the same factory.
func (s *ApplicationService) GetUnitOfWork() domain.UnitOfWork {
	return s.unitOfWork()
}

// GetLogger returns the logger instance
func (s *ApplicationService) GetLogger() domain.Logger {
	return s.logger
}
