package domain

import "context"

// ProjectRepository persists and reconstructs Project aggregates.
type ProjectRepository interface {
	Repository[*Project]

	FindBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (*Project, error)
	ExistsBySlug(ctx context.Context, instanceID, ownerOrgID, slug string) (bool, error)

	// Exists reports whether id already has events, independent of slug.
	// Create handlers call this to enforce per-ID existence before slug
	// uniqueness, matching UserRepository.Exists.
	Exists(ctx context.Context, instanceID, id string) (bool, error)
}
