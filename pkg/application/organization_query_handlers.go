package application

import (
	"context"
	"math"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// GetOrganizationHandler handles GetOrganizationQuery
type GetOrganizationHandler struct {
	readModelRepo OrganizationReadModelRepository
}

func NewGetOrganizationHandler(readModelRepo OrganizationReadModelRepository) *GetOrganizationHandler {
	return &GetOrganizationHandler{readModelRepo: readModelRepo}
}

func (h *GetOrganizationHandler) Handle(ctx context.Context, logger domain.Logger, query GetOrganizationQuery) (OrganizationDTO, error) {
	org, err := h.readModelRepo.GetByID(ctx, query.InstanceID, query.ID)
	if err != nil {
		return OrganizationDTO{}, NewApplicationError("ORG_NOT_FOUND", "Organization not found", err)
	}
	return org.ToDTO(), nil
}

// ListOrganizationsHandler handles ListOrganizationsQuery
type ListOrganizationsHandler struct {
	readModelRepo OrganizationReadModelRepository
}

func NewListOrganizationsHandler(readModelRepo OrganizationReadModelRepository) *ListOrganizationsHandler {
	return &ListOrganizationsHandler{readModelRepo: readModelRepo}
}

func (h *ListOrganizationsHandler) Handle(ctx context.Context, logger domain.Logger, query ListOrganizationsQuery) (ListOrganizationsResult, error) {
	orgs, totalCount, err := h.readModelRepo.List(ctx, query.InstanceID, query.Page, query.PageSize)
	if err != nil {
		return ListOrganizationsResult{}, NewApplicationError("ORG_LIST_FAILED", "Failed to list organizations", err)
	}

	dtos := make([]OrganizationDTO, len(orgs))
	for i, o := range orgs {
		dtos[i] = o.ToDTO()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.PageSize)))

	return ListOrganizationsResult{
		Organizations: dtos,
		Page:          query.Page,
		PageSize:      query.PageSize,
		TotalCount:    totalCount,
		TotalPages:    totalPages,
	}, nil
}
