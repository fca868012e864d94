package application

import (
	"context"
	"math"

	"github.com/coreidentity/iamcore/pkg/domain"
)

// GetUserHandler handles GetUserQuery
type GetUserHandler struct {
	readModelRepo UserReadModelRepository
}

// NewGetUserHandler creates a new GetUserHandler
func NewGetUserHandler(readModelRepo UserReadModelRepository) *GetUserHandler {
	return &GetUserHandler{
		readModelRepo: readModelRepo,
	}
}

// Handle processes the GetUserQuery
func (h *GetUserHandler) Handle(ctx context.Context, logger domain.Logger, query GetUserQuery) (UserDTO, error) {
	logger.Debug("Processing GetUserQuery", "id", query.ID)

	user, err := h.readModelRepo.GetByID(ctx, query.InstanceID, query.ID)
	if err != nil {
		logger.Error("Failed to get user from read model", "id", query.ID, "error", err)
		return UserDTO{}, NewApplicationError("USER_NOT_FOUND", "User not found", err)
	}

	logger.Debug("User retrieved successfully", "id", query.ID, "email", user.Email)
	return user.ToDTO(), nil
}

// GetUserByEmailHandler handles GetUserByEmailQuery
type GetUserByEmailHandler struct {
	readModelRepo UserReadModelRepository
}

func NewGetUserByEmailHandler(readModelRepo UserReadModelRepository) *GetUserByEmailHandler {
	return &GetUserByEmailHandler{readModelRepo: readModelRepo}
}

func (h *GetUserByEmailHandler) Handle(ctx context.Context, logger domain.Logger, query GetUserByEmailQuery) (UserDTO, error) {
	user, err := h.readModelRepo.GetByEmail(ctx, query.InstanceID, query.Email)
	if err != nil {
		logger.Error("Failed to get user by email from read model", "email", query.Email, "error", err)
		return UserDTO{}, NewApplicationError("USER_NOT_FOUND", "User not found", err)
	}
	return user.ToDTO(), nil
}

// ListUsersHandler handles ListUsersQuery
type ListUsersHandler struct {
	readModelRepo UserReadModelRepository
}

// NewListUsersHandler creates a new ListUsersHandler
func NewListUsersHandler(readModelRepo UserReadModelRepository) *ListUsersHandler {
	return &ListUsersHandler{
		readModelRepo: readModelRepo,
	}
}

// Handle processes the ListUsersQuery
func (h *ListUsersHandler) Handle(ctx context.Context, logger domain.Logger, query ListUsersQuery) (ListUsersResult, error) {
	logger.Debug("Processing ListUsersQuery", "page", query.Page, "page_size", query.PageSize)

	users, totalCount, err := h.readModelRepo.List(ctx, query.InstanceID, query.Page, query.PageSize)
	if err != nil {
		logger.Error("Failed to list users from read model", "page", query.Page, "page_size", query.PageSize, "error", err)
		return ListUsersResult{}, NewApplicationError("USER_LIST_FAILED", "Failed to list users", err)
	}

	userDTOs := make([]UserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = user.ToDTO()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.PageSize)))

	result := ListUsersResult{
		Users:      userDTOs,
		Page:       query.Page,
		PageSize:   query.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}

	logger.Debug("Users listed successfully", "count", len(userDTOs), "total_count", totalCount, "total_pages", totalPages)
	return result, nil
}
