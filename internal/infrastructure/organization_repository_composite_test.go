package infrastructure

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/internal/projection"
	"github.com/coreidentity/iamcore/pkg/domain"
	pkginfra "github.com/coreidentity/iamcore/pkg/infrastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepositoryComposite_SaveLoadAndSlugLookups(t *testing.T) {
	ctx := context.Background()
	db := newCompositeTestDB(t)

	eventStore, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)

	readModelRepo := NewOrganizationReadModelGORMRepository(db)
	require.NoError(t, readModelRepo.Migrate())

	orgProjection := projection.NewOrganizationProjection(db)

	logger := pkginfra.NewLogger("error", "text")
	eventSourcing := NewOrganizationEventSourcingRepository(eventStore, logger)
	repo := NewOrganizationRepositoryComposite(eventSourcing, readModelRepo)

	org, err := domain.NewOrganization(ctx, "inst-1", "org-1", "Acme", "acme")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, org))

	envelopes, err := eventStore.ReadAggregate(ctx, "inst-1", "organization", "org-1")
	require.NoError(t, err)
	require.Len(t, envelopes, 1)
	require.NoError(t, orgProjection.Apply(ctx, envelopes[0]))

	loaded, err := repo.Load(ctx, "inst-1", "org-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", loaded.Name())

	bySlug, err := repo.FindBySlug(ctx, "inst-1", "acme")
	require.NoError(t, err)
	assert.Equal(t, "org-1", bySlug.ID())

	exists, err := repo.ExistsBySlug(ctx, "inst-1", "acme")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySlug(ctx, "inst-1", "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestOrganizationRepositoryComposite_LoadMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	db := newCompositeTestDB(t)

	eventStore, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)
	readModelRepo := NewOrganizationReadModelGORMRepository(db)
	require.NoError(t, readModelRepo.Migrate())

	repo := NewOrganizationRepositoryComposite(NewOrganizationEventSourcingRepository(eventStore, pkginfra.NewLogger("error", "text")), readModelRepo)

	_, err = repo.Load(ctx, "inst-1", "missing")
	assert.IsType(t, domain.NotFoundError{}, err)
}
