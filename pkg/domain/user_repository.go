package domain

import "context"

// UserRepository persists and reconstructs User aggregates, and exposes the
// natural-key lookups the eventstore alone cannot answer efficiently.
type UserRepository interface {
	Repository[*User]

	// FindByEmail finds a user by email within instanceID. Backed by the
	// user read model, not the eventstore, since the eventstore has no
	// secondary index.
	FindByEmail(ctx context.Context, instanceID, email string) (*User, error)

	Exists(ctx context.Context, instanceID, id string) (bool, error)
	ExistsByEmail(ctx context.Context, instanceID, email string) (bool, error)
}
