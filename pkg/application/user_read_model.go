package application

import "context"

// UserReadModel represents a user in the read model optimized for queries,
// scoped to a tenant instance.
type UserReadModel struct {
	ID         string
	InstanceID string
	Email      string
	Name       string
	Owner      string
	State      string
	Version    int64
}

// UserReadModelRepository defines the interface for querying user read models
type UserReadModelRepository interface {
	// GetByID retrieves a user read model by ID within instanceID
	GetByID(ctx context.Context, instanceID, id string) (*UserReadModel, error)

	// GetByEmail retrieves a user read model by email within instanceID
	GetByEmail(ctx context.Context, instanceID, email string) (*UserReadModel, error)

	// List retrieves a paginated list of user read models within instanceID
	List(ctx context.Context, instanceID string, page, pageSize int) ([]UserReadModel, int, error)

	// Save saves or updates a user read model
	Save(ctx context.Context, user *UserReadModel) error

	// Delete removes a user read model
	Delete(ctx context.Context, instanceID, id string) error

	// Count returns the total number of users within instanceID
	Count(ctx context.Context, instanceID string) (int, error)
}

// ToDTO converts a UserReadModel to a UserDTO
func (u *UserReadModel) ToDTO() UserDTO {
	return UserDTO{
		ID:         u.ID,
		InstanceID: u.InstanceID,
		Email:      u.Email,
		Name:       u.Name,
		Owner:      u.Owner,
		State:      u.State,
		Version:    u.Version,
	}
}
