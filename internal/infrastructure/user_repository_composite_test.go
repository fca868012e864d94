package infrastructure

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/internal/projection"
	"github.com/coreidentity/iamcore/pkg/domain"
	pkginfra "github.com/coreidentity/iamcore/pkg/infrastructure"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCompositeTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestUserRepositoryComposite_SaveLoadAndNaturalKeyLookups(t *testing.T) {
	ctx := context.Background()
	db := newCompositeTestDB(t)

	eventStore, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)

	readModelRepo := NewUserReadModelGORMRepository(db)
	require.NoError(t, readModelRepo.Migrate())

	userProjection := projection.NewUserProjection(db)
	require.NoError(t, db.AutoMigrate(&UserReadModelGORM{}))

	logger := pkginfra.NewLogger("error", "text")
	eventSourcing := NewUserEventSourcingRepository(eventStore, logger)
	repo := NewUserRepositoryComposite(eventSourcing, readModelRepo)

	user, err := domain.NewUser(ctx, "inst-1", "user-1", "ada@example.com", "Ada Lovelace", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	envelopes, err := eventStore.ReadAggregate(ctx, "inst-1", "user", "user-1")
	require.NoError(t, err)
	require.Len(t, envelopes, 1)
	require.NoError(t, userProjection.Apply(ctx, envelopes[0]))

	loaded, err := repo.Load(ctx, "inst-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", loaded.Email())

	byEmail, err := repo.FindByEmail(ctx, "inst-1", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID())

	exists, err := repo.Exists(ctx, "inst-1", "user-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, "inst-1", "user-missing")
	require.NoError(t, err)
	assert.False(t, exists)

	existsByEmail, err := repo.ExistsByEmail(ctx, "inst-1", "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, existsByEmail)
}

func TestUserRepositoryComposite_LoadMissingReturnsNotFound(t *testing.T) {
	ctx := context.Background()
	db := newCompositeTestDB(t)

	eventStore, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)
	readModelRepo := NewUserReadModelGORMRepository(db)
	require.NoError(t, readModelRepo.Migrate())

	repo := NewUserRepositoryComposite(NewUserEventSourcingRepository(eventStore, pkginfra.NewLogger("error", "text")), readModelRepo)

	_, err = repo.Load(ctx, "inst-1", "missing")
	assert.IsType(t, domain.NotFoundError{}, err)
}
