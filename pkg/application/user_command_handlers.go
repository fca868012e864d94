package application

import (
	"context"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// CreateUserHandler handles CreateUserCommand
type CreateUserHandler struct {
	userRepo   domain.UserRepository
	unitOfWork domain.UnitOfWorkFactory
}

// NewCreateUserHandler creates a new CreateUserHandler
func NewCreateUserHandler(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *CreateUserHandler {
	return &CreateUserHandler{
		userRepo:   userRepo,
		unitOfWork: unitOfWork,
	}
}

// Handle processes the CreateUserCommand
func (h *CreateUserHandler) Handle(ctx context.Context, logger domain.Logger, cmd CreateUserCommand) error {
	logger.Debug("Processing CreateUserCommand", "id", cmd.ID, "email", cmd.Email, "name", cmd.Name)

	exists, err := h.userRepo.Exists(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		logger.Error("Failed to check if user exists", "id", cmd.ID, "error", err)
		return NewApplicationError("USER_EXISTENCE_CHECK_FAILED", "Failed to check if user exists", err)
	}

	if exists {
		logger.Warn("User already exists", "id", cmd.ID)
		return NewApplicationError("USER_ALREADY_EXISTS", "User with this ID already exists", nil)
	}

	emailExists, err := h.userRepo.ExistsByEmail(ctx, cmd.InstanceID, cmd.Email)
	if err != nil {
		logger.Error("Failed to check if email exists", "email", cmd.Email, "error", err)
		return NewApplicationError("EMAIL_EXISTENCE_CHECK_FAILED", "Failed to check if email exists", err)
	}

	if emailExists {
		logger.Warn("Email already in use", "email", cmd.Email)
		return NewApplicationError("EMAIL_ALREADY_EXISTS", "Email is already in use", nil)
	}

	user, err := domain.NewUser(ctx, cmd.InstanceID, cmd.ID, cmd.Email, cmd.Name, cmd.Owner)
	if err != nil {
		logger.Error("Failed to create user aggregate", "id", cmd.ID, "error", err)
		return NewApplicationError("USER_CREATION_FAILED", "Failed to create user", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(user.UncommittedEvents())

	envelopes, err := uow.Commit(ctx)
	if err != nil {
		logger.Error("Failed to commit unit of work", "id", cmd.ID, "error", err)
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("User created successfully", "id", cmd.ID, "email", cmd.Email, "events_dispatched", len(envelopes))
	return nil
}

// UpdateUserEmailHandler handles UpdateUserEmailCommand
type UpdateUserEmailHandler struct {
	userRepo   domain.UserRepository
	unitOfWork domain.UnitOfWorkFactory
}

// NewUpdateUserEmailHandler creates a new UpdateUserEmailHandler
func NewUpdateUserEmailHandler(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *UpdateUserEmailHandler {
	return &UpdateUserEmailHandler{
		userRepo:   userRepo,
		unitOfWork: unitOfWork,
	}
}

// Handle processes the UpdateUserEmailCommand
func (h *UpdateUserEmailHandler) Handle(ctx context.Context, logger domain.Logger, cmd UpdateUserEmailCommand) error {
	logger.Debug("Processing UpdateUserEmailCommand", "id", cmd.ID, "new_email", cmd.NewEmail)

	user, err := h.userRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		logger.Error("Failed to load user", "id", cmd.ID, "error", err)
		return NewApplicationError("USER_LOAD_FAILED", "Failed to load user", err)
	}

	emailExists, err := h.userRepo.ExistsByEmail(ctx, cmd.InstanceID, cmd.NewEmail)
	if err != nil {
		logger.Error("Failed to check if email exists", "email", cmd.NewEmail, "error", err)
		return NewApplicationError("EMAIL_EXISTENCE_CHECK_FAILED", "Failed to check if email exists", err)
	}

	if emailExists {
		existingUser, err := h.userRepo.FindByEmail(ctx, cmd.InstanceID, cmd.NewEmail)
		if err != nil {
			logger.Error("Failed to find user by email", "email", cmd.NewEmail, "error", err)
			return NewApplicationError("USER_LOOKUP_FAILED", "Failed to lookup user by email", err)
		}

		if existingUser.ID() != cmd.ID {
			logger.Warn("Email already in use by another user", "email", cmd.NewEmail, "existing_user_id", existingUser.ID())
			return NewApplicationError("EMAIL_ALREADY_EXISTS", "Email is already in use by another user", nil)
		}
	}

	if err := user.UpdateEmail(ctx, cmd.NewEmail); err != nil {
		logger.Error("Failed to update user email", "id", cmd.ID, "new_email", cmd.NewEmail, "error", err)
		return NewApplicationError("EMAIL_UPDATE_FAILED", "Failed to update user email", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(user.UncommittedEvents())

	envelopes, err := uow.Commit(ctx)
	if err != nil {
		logger.Error("Failed to commit unit of work", "id", cmd.ID, "error", err)
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("User email updated successfully", "id", cmd.ID, "new_email", cmd.NewEmail, "events_dispatched", len(envelopes))
	return nil
}

// DeactivateUserHandler handles DeactivateUserCommand
type DeactivateUserHandler struct {
	userRepo   domain.UserRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewDeactivateUserHandler(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *DeactivateUserHandler {
	return &DeactivateUserHandler{userRepo: userRepo, unitOfWork: unitOfWork}
}

func (h *DeactivateUserHandler) Handle(ctx context.Context, logger domain.Logger, cmd DeactivateUserCommand) error {
	user, err := h.userRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("USER_LOAD_FAILED", "Failed to load user", err)
	}

	if err := user.Deactivate(ctx, cmd.Reason); err != nil {
		return NewApplicationError("USER_DEACTIVATE_FAILED", "Failed to deactivate user", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(user.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("User deactivated successfully", "id", cmd.ID)
	return nil
}

// ReactivateUserHandler handles ReactivateUserCommand
type ReactivateUserHandler struct {
	userRepo   domain.UserRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewReactivateUserHandler(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *ReactivateUserHandler {
	return &ReactivateUserHandler{userRepo: userRepo, unitOfWork: unitOfWork}
}

func (h *ReactivateUserHandler) Handle(ctx context.Context, logger domain.Logger, cmd ReactivateUserCommand) error {
	user, err := h.userRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("USER_LOAD_FAILED", "Failed to load user", err)
	}

	if err := user.Reactivate(ctx); err != nil {
		return NewApplicationError("USER_REACTIVATE_FAILED", "Failed to reactivate user", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(user.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("User reactivated successfully", "id", cmd.ID)
	return nil
}
