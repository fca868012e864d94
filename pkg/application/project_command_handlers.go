package application

import (
	"context"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// CreateProjectHandler handles CreateProjectCommand
type CreateProjectHandler struct {
	projectRepo domain.ProjectRepository
	unitOfWork  domain.UnitOfWorkFactory
}

func NewCreateProjectHandler(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *CreateProjectHandler {
	return &CreateProjectHandler{projectRepo: projectRepo, unitOfWork: unitOfWork}
}

func (h *CreateProjectHandler) Handle(ctx context.Context, logger domain.Logger, cmd CreateProjectCommand) error {
	exists, err := h.projectRepo.Exists(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		logger.Error("Failed to check if project exists", "id", cmd.ID, "error", err)
		return NewApplicationError("PROJECT_EXISTENCE_CHECK_FAILED", "Failed to check if project exists", err)
	}
	if exists {
		logger.Warn("Project already exists", "id", cmd.ID)
		return NewApplicationError("PROJECT_ALREADY_EXISTS", "Project with this ID already exists", nil)
	}

	slugExists, err := h.projectRepo.ExistsBySlug(ctx, cmd.InstanceID, cmd.OwnerOrgID, cmd.Slug)
	if err != nil {
		return NewApplicationError("PROJECT_SLUG_CHECK_FAILED", "Failed to check if slug exists", err)
	}
	if slugExists {
		return NewApplicationError("PROJECT_SLUG_ALREADY_EXISTS", "Slug is already in use", nil)
	}

	project, err := domain.NewProject(ctx, cmd.InstanceID, cmd.ID, cmd.Name, cmd.Slug, cmd.OwnerOrgID)
	if err != nil {
		return NewApplicationError("PROJECT_CREATION_FAILED", "Failed to create project", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(project.UncommittedEvents())

	envelopes, err := uow.Commit(ctx)
	if err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Project created successfully", "id", cmd.ID, "events_dispatched", len(envelopes))
	return nil
}

// RenameProjectHandler handles RenameProjectCommand
type RenameProjectHandler struct {
	projectRepo domain.ProjectRepository
	unitOfWork  domain.UnitOfWorkFactory
}

func NewRenameProjectHandler(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *RenameProjectHandler {
	return &RenameProjectHandler{projectRepo: projectRepo, unitOfWork: unitOfWork}
}

func (h *RenameProjectHandler) Handle(ctx context.Context, logger domain.Logger, cmd RenameProjectCommand) error {
	project, err := h.projectRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("PROJECT_LOAD_FAILED", "Failed to load project", err)
	}

	if err := project.Rename(ctx, cmd.NewName); err != nil {
		return NewApplicationError("PROJECT_RENAME_FAILED", "Failed to rename project", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(project.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Project renamed successfully", "id", cmd.ID)
	return nil
}

// AddProjectMemberHandler handles AddProjectMemberCommand
type AddProjectMemberHandler struct {
	projectRepo domain.ProjectRepository
	unitOfWork  domain.UnitOfWorkFactory
}

func NewAddProjectMemberHandler(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *AddProjectMemberHandler {
	return &AddProjectMemberHandler{projectRepo: projectRepo, unitOfWork: unitOfWork}
}

func (h *AddProjectMemberHandler) Handle(ctx context.Context, logger domain.Logger, cmd AddProjectMemberCommand) error {
	project, err := h.projectRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("PROJECT_LOAD_FAILED", "Failed to load project", err)
	}

	if err := project.AddMember(ctx, cmd.UserID, cmd.Role); err != nil {
		return NewApplicationError("PROJECT_ADD_MEMBER_FAILED", "Failed to add member", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(project.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Project member added", "id", cmd.ID, "user_id", cmd.UserID)
	return nil
}

// RemoveProjectMemberHandler handles RemoveProjectMemberCommand
type RemoveProjectMemberHandler struct {
	projectRepo domain.ProjectRepository
	unitOfWork  domain.UnitOfWorkFactory
}

func NewRemoveProjectMemberHandler(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *RemoveProjectMemberHandler {
	return &RemoveProjectMemberHandler{projectRepo: projectRepo, unitOfWork: unitOfWork}
}

func (h *RemoveProjectMemberHandler) Handle(ctx context.Context, logger domain.Logger, cmd RemoveProjectMemberCommand) error {
	project, err := h.projectRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("PROJECT_LOAD_FAILED", "Failed to load project", err)
	}

	if err := project.RemoveMember(ctx, cmd.UserID); err != nil {
		return NewApplicationError("PROJECT_REMOVE_MEMBER_FAILED", "Failed to remove member", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(project.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Project member removed", "id", cmd.ID, "user_id", cmd.UserID)
	return nil
}

// DeactivateProjectHandler handles DeactivateProjectCommand
type DeactivateProjectHandler struct {
	projectRepo domain.ProjectRepository
	unitOfWork  domain.UnitOfWorkFactory
}

func NewDeactivateProjectHandler(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *DeactivateProjectHandler {
	return &DeactivateProjectHandler{projectRepo: projectRepo, unitOfWork: unitOfWork}
}

func (h *DeactivateProjectHandler) Handle(ctx context.Context, logger domain.Logger, cmd DeactivateProjectCommand) error {
	project, err := h.projectRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("PROJECT_LOAD_FAILED", "Failed to load project", err)
	}

	if err := project.Deactivate(ctx, cmd.Reason); err != nil {
		return NewApplicationError("PROJECT_DEACTIVATE_FAILED", "Failed to deactivate project", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(project.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Project deactivated", "id", cmd.ID)
	return nil
}

// ReactivateProjectHandler handles ReactivateProjectCommand
type ReactivateProjectHandler struct {
	projectRepo domain.ProjectRepository
	unitOfWork  domain.UnitOfWorkFactory
}

func NewReactivateProjectHandler(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *ReactivateProjectHandler {
	return &ReactivateProjectHandler{projectRepo: projectRepo, unitOfWork: unitOfWork}
}

func (h *ReactivateProjectHandler) Handle(ctx context.Context, logger domain.Logger, cmd ReactivateProjectCommand) error {
	project, err := h.projectRepo.Load(ctx, cmd.InstanceID, cmd.ID)
	if err != nil {
		return NewApplicationError("PROJECT_LOAD_FAILED", "Failed to load project", err)
	}

	if err := project.Reactivate(ctx); err != nil {
		return NewApplicationError("PROJECT_REACTIVATE_FAILED", "Failed to reactivate project", err)
	}

	uow := h.unitOfWork()
	uow.RegisterEvents(project.UncommittedEvents())

	if _, err := uow.Commit(ctx); err != nil {
		return NewApplicationError("UNIT_OF_WORK_COMMIT_FAILED", "Failed to commit transaction", err)
	}

	logger.Info("Project reactivated", "id", cmd.ID)
	return nil
}
