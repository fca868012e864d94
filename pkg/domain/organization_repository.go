package domain

import "context"

// OrganizationRepository persists and reconstructs Organization aggregates.
type OrganizationRepository interface {
	Repository[*Organization]

	FindBySlug(ctx context.Context, instanceID, slug string) (*Organization, error)
	ExistsBySlug(ctx context.Context, instanceID, slug string) (bool, error)

	// Exists reports whether id already has events, independent of slug.
	// Create handlers call this to enforce per-ID existence before slug
	// uniqueness, matching UserRepository.Exists.
	Exists(ctx context.Context, instanceID, id string) (bool, error)
}
