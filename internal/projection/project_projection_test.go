package projection

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/internal/infrastructure"
	"github.com/coreidentity/iamcore/pkg/domain"
	pkginfra "github.com/coreidentity/iamcore/pkg/infrastructure"
	"github.com/stretchr/testify/require"
)

func mustProjectEvents(t *testing.T, store *pkginfra.GormEventStore, instanceID, aggregateID string) []domain.Event {
	t.Helper()
	envelopes, err := store.ReadAggregate(context.Background(), instanceID, "project", aggregateID)
	require.NoError(t, err)
	events := make([]domain.Event, len(envelopes))
	for i, e := range envelopes {
		events[i] = e.Event()
	}
	return events
}

func TestProjectProjection_AppliesLifecycleEventsAndRecordsOwner(t *testing.T) {
	ctx := context.Background()
	db := newMembershipTestDB(t)
	store, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)

	readModelRepo := infrastructure.NewProjectReadModelGORMRepository(db)
	require.NoError(t, readModelRepo.Migrate())

	proj := NewProjectProjection(db)

	project, err := domain.NewProject(ctx, "inst-1", "proj-1", "Widgets", "widgets", "org-1")
	require.NoError(t, err)
	require.NoError(t, project.Rename(ctx, "Widgets Inc"))
	envelopes, err := store.Push(ctx, project.UncommittedEvents())
	require.NoError(t, err)
	for _, e := range envelopes {
		require.NoError(t, proj.Apply(ctx, e))
	}

	var row infrastructure.ProjectReadModelGORM
	require.NoError(t, db.Where("instance_id = ? AND id = ?", "inst-1", "proj-1").First(&row).Error)
	require.Equal(t, "Widgets Inc", row.Name)
	require.Equal(t, "org-1", row.OwnerOrgID)
	require.Equal(t, string(domain.StateActive), row.State)

	project2 := domain.LoadProjectFromHistory("proj-1", mustProjectEvents(t, store, "inst-1", "proj-1"))
	require.NoError(t, project2.Deactivate(ctx, "policy"))
	deactivateEnvelopes, err := store.Push(ctx, project2.UncommittedEvents())
	require.NoError(t, err)
	for _, e := range deactivateEnvelopes {
		require.NoError(t, proj.Apply(ctx, e))
	}

	require.NoError(t, db.Where("instance_id = ? AND id = ?", "inst-1", "proj-1").First(&row).Error)
	require.Equal(t, string(domain.StateInactive), row.State)
}

func TestProjectProjection_ResetClearsTable(t *testing.T) {
	ctx := context.Background()
	db := newMembershipTestDB(t)
	readModelRepo := infrastructure.NewProjectReadModelGORMRepository(db)
	require.NoError(t, readModelRepo.Migrate())

	require.NoError(t, db.Create(&infrastructure.ProjectReadModelGORM{ID: "proj-1", InstanceID: "inst-1", Name: "Widgets", Slug: "widgets", OwnerOrgID: "org-1"}).Error)

	proj := NewProjectProjection(db)
	require.NoError(t, proj.Reset(ctx))

	var count int64
	require.NoError(t, db.Model(&infrastructure.ProjectReadModelGORM{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}
