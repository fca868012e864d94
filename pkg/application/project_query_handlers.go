package application

import (
	"context"
	"math"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// GetProjectHandler handles GetProjectQuery
type GetProjectHandler struct {
	readModelRepo ProjectReadModelRepository
}

func NewGetProjectHandler(readModelRepo ProjectReadModelRepository) *GetProjectHandler {
	return &GetProjectHandler{readModelRepo: readModelRepo}
}

func (h *GetProjectHandler) Handle(ctx context.Context, logger domain.Logger, query GetProjectQuery) (ProjectDTO, error) {
	project, err := h.readModelRepo.GetByID(ctx, query.InstanceID, query.ID)
	if err != nil {
		return ProjectDTO{}, NewApplicationError("PROJECT_NOT_FOUND", "Project not found", err)
	}
	return project.ToDTO(), nil
}

// ListProjectsHandler handles ListProjectsQuery
type ListProjectsHandler struct {
	readModelRepo ProjectReadModelRepository
}

func NewListProjectsHandler(readModelRepo ProjectReadModelRepository) *ListProjectsHandler {
	return &ListProjectsHandler{readModelRepo: readModelRepo}
}

func (h *ListProjectsHandler) Handle(ctx context.Context, logger domain.Logger, query ListProjectsQuery) (ListProjectsResult, error) {
	projects, totalCount, err := h.readModelRepo.ListByOwner(ctx, query.InstanceID, query.OwnerOrgID, query.Page, query.PageSize)
	if err != nil {
		return ListProjectsResult{}, NewApplicationError("PROJECT_LIST_FAILED", "Failed to list projects", err)
	}

	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = p.ToDTO()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.PageSize)))

	return ListProjectsResult{
		Projects:   dtos,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}
