package application

import (
	"context"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// CreateOrganizationHandler handles CreateOrganizationCommand
type CreateOrganizationHandler struct {
	orgRepo    domain.OrganizationRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewCreateOrganizationHandler(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *CreateOrganizationHandler {
	return &CreateOrganizationHandler{orgRepo: orgRepo, unitOfWork: unitOfWork}
}

func (h *CreateOrganizationHandler) Handle(ctx context.Context, logger domain.Logger, cmd CreateOrganizationCommand) error {
	logger.Debug("Processing CreateOrganizationCommand", "id", cmd.ID, "slug", cmd.Slug)

	exists, err := h.orgRepo.Exists(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		logger.Error("Failed to check if organization exists", "id", cmd.ID, "error", err)
		return NewApplicationError("ORG_EXISTENCE_CHECK_FAILED", "Failed to check if organization exists", err)
	}
	if exists {
		logger.Warn("Organization already exists", "id", cmd.ID)
		return NewApplicationError("ORG_ALREADY_EXISTS", "Organization with this ID already exists", nil)
	}

	slugExists, err := h.orgRepo.ExistsBySlug(ctx, cmd.InstanceID, cmd.Slug)
	if err != nil {
		return NewApplicationError("ORG_SLUG_CHECK_FAILED", "Failed to check if slug exists", err)
	}
	if slugExists {
		return NewApplicationError("ORG_SLUG_ALREADY_EXISTS", "Slug is already in use", nil)
	}

	org, err := domain.NewOrganization(ctx, cmd.InstanceID, cmd.ID, cmd.Name, cmd.Slug)
	if err != nil {
		return NewApplicationError("ORG_CREATION_FAILED", "Failed to create organization", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(org.UncommittedEvents())

	envelopes, err := uow.Commit(ctx)
	if err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Organization created successfully", "id", cmd.ID, "events_dispatched", len(envelopes))
	return nil
}

// RenameOrganizationHandler handles RenameOrganizationCommand
type RenameOrganizationHandler struct {
	orgRepo    domain.OrganizationRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewRenameOrganizationHandler(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *RenameOrganizationHandler {
	return &RenameOrganizationHandler{orgRepo: orgRepo, unitOfWork: unitOfWork}
}

func (h *RenameOrganizationHandler) Handle(ctx context.Context, logger domain.Logger, cmd RenameOrganizationCommand) error {
	org, err := h.orgRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("ORG_LOAD_FAILED", "Failed to load organization", err)
	}

	if err := org.Rename(ctx, cmd.NewName); err != nil {
		return NewApplicationError("ORG_RENAME_FAILED", "Failed to rename organization", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(org.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Organization renamed successfully", "id", cmd.ID)
	return nil
}

// AddOrganizationMemberHandler handles AddOrganizationMemberCommand
type AddOrganizationMemberHandler struct {
	orgRepo    domain.OrganizationRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewAddOrganizationMemberHandler(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *AddOrganizationMemberHandler {
	return &AddOrganizationMemberHandler{orgRepo: orgRepo, unitOfWork: unitOfWork}
}

func (h *AddOrganizationMemberHandler) Handle(ctx context.Context, logger domain.Logger, cmd AddOrganizationMemberCommand) error {
	org, err := h.orgRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("ORG_LOAD_FAILED", "Failed to load organization", err)
	}

	if err := org.AddMember(ctx, cmd.UserID, cmd.Role); err != nil {
		return NewApplicationError("ORG_ADD_MEMBER_FAILED", "Failed to add member", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(org.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Organization member added", "id", cmd.ID, "user_id", cmd.UserID)
	return nil
}

// RemoveOrganizationMemberHandler handles RemoveOrganizationMemberCommand
type RemoveOrganizationMemberHandler struct {
	orgRepo    domain.OrganizationRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewRemoveOrganizationMemberHandler(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *RemoveOrganizationMemberHandler {
	return &RemoveOrganizationMemberHandler{orgRepo: orgRepo, unitOfWork: unitOfWork}
}

func (h *RemoveOrganizationMemberHandler) Handle(ctx context.Context, logger domain.Logger, cmd RemoveOrganizationMemberCommand) error {
	org, err := h.orgRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("ORG_LOAD_FAILED", "Failed to load organization", err)
	}

	if err := org.RemoveMember(ctx, cmd.UserID); err != nil {
		return NewApplicationError("ORG_REMOVE_MEMBER_FAILED", "Failed to remove member", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(org.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Organization member removed", "id", cmd.ID, "user_id", cmd.UserID)
	return nil
}

// DeactivateOrganizationHandler handles DeactivateOrganizationCommand
type DeactivateOrganizationHandler struct {
	orgRepo    domain.OrganizationRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewDeactivateOrganizationHandler(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *DeactivateOrganizationHandler {
	return &DeactivateOrganizationHandler{orgRepo: orgRepo, unitOfWork: unitOfWork}
}

func (h *DeactivateOrganizationHandler) Handle(ctx context.Context, logger domain.Logger, cmd DeactivateOrganizationCommand) error {
	org, err := h.orgRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("ORG_LOAD_FAILED", "Failed to load organization", err)
	}

	if err := org.Deactivate(ctx, cmd.Reason); err != nil {
		return NewApplicationError("ORG_DEACTIVATE_FAILED", "Failed to deactivate organization", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(org.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Organization deactivated", "id", cmd.ID)
	return nil
}

// ReactivateOrganizationHandler handles ReactivateOrganizationCommand
type ReactivateOrganizationHandler struct {
	orgRepo    domain.OrganizationRepository
	unitOfWork domain.UnitOfWorkFactory
}

func NewReactivateOrganizationHandler(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *ReactivateOrganizationHandler {
	return &ReactivateOrganizationHandler{orgRepo: orgRepo, unitOfWork: unitOfWork}
}

func (h *ReactivateOrganizationHandler) Handle(ctx context.Context, logger domain.Logger, cmd ReactivateOrganizationCommand) error {
	org, err := h.orgRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("ORG_LOAD_FAILED", "Failed to load organization", err)
	}

	if err := org.Reactivate(ctx); err != nil {
		return NewApplicationError("ORG_REACTIVATE_FAILED", "Failed to reactivate organization", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(org.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Organization reactivated", "id", cmd.ID)
	return nil
}
