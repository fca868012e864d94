package projection

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/pkg/domain"
	pkginfra "github.com/coreidentity/iamcore/pkg/infrastructure"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMembershipTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestMembershipProjection_TracksOrganizationAndProjectEdges(t *testing.T) {
	ctx := context.Background()
	db := newMembershipTestDB(t)
	store, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)

	proj := NewMembershipProjection(db)
	require.NoError(t, proj.Migrate())

	org, err := domain.NewOrganization(ctx, "inst-1", "org-1", "Acme", "acme")
	require.NoError(t, err)
	require.NoError(t, org.AddMember(ctx, "user-1", "member"))
	envelopes, err := store.Push(ctx, org.UncommittedEvents())
	require.NoError(t, err)
	for _, e := range envelopes {
		require.NoError(t, proj.Apply(ctx, e))
	}

	var orgMember OrgMemberGORM
	require.NoError(t, db.Where("instance_id = ? AND org_id = ? AND user_id = ?", "inst-1", "org-1", "user-1").First(&orgMember).Error)
	require.Equal(t, "member", orgMember.Role)

	org2 := domain.LoadOrganizationFromHistory("org-1", mustEvents(t, store, "inst-1", "org-1"))
	require.NoError(t, org2.RemoveMember(ctx, "user-1"))
	removeEnvelopes, err := store.Push(ctx, org2.UncommittedEvents())
	require.NoError(t, err)
	for _, e := range removeEnvelopes {
		require.NoError(t, proj.Apply(ctx, e))
	}

	err = db.Where("instance_id = ? AND org_id = ? AND user_id = ?", "inst-1", "org-1", "user-1").First(&OrgMemberGORM{}).Error
	require.Error(t, err)

	project, err := domain.NewProject(ctx, "inst-1", "proj-1", "Widgets", "widgets", "org-1")
	require.NoError(t, err)
	require.NoError(t, project.AddMember(ctx, "user-2", "contributor"))
	projEnvelopes, err := store.Push(ctx, project.UncommittedEvents())
	require.NoError(t, err)
	for _, e := range projEnvelopes {
		require.NoError(t, proj.Apply(ctx, e))
	}

	var projMember ProjectMemberGORM
	require.NoError(t, db.Where("instance_id = ? AND project_id = ? AND user_id = ?", "inst-1", "proj-1", "user-2").First(&projMember).Error)
	require.Equal(t, "contributor", projMember.Role)
}

func TestMembershipProjection_ResetClearsBothTables(t *testing.T) {
	ctx := context.Background()
	db := newMembershipTestDB(t)
	proj := NewMembershipProjection(db)
	require.NoError(t, proj.Migrate())

	require.NoError(t, db.Create(&OrgMemberGORM{InstanceID: "inst-1", OrgID: "org-1", UserID: "user-1", Role: "member"}).Error)
	require.NoError(t, db.Create(&ProjectMemberGORM{InstanceID: "inst-1", ProjectID: "proj-1", UserID: "user-2", Role: "contributor"}).Error)

	require.NoError(t, proj.Reset(ctx))

	var orgCount, projCount int64
	require.NoError(t, db.Model(&OrgMemberGORM{}).Count(&orgCount).Error)
	require.NoError(t, db.Model(&ProjectMemberGORM{}).Count(&projCount).Error)
	require.Equal(t, int64(0), orgCount)
	require.Equal(t, int64(0), projCount)
}

func mustEvents(t *testing.T, store *pkginfra.GormEventStore, instanceID, aggregateID string) []domain.Event {
	t.Helper()
	envelopes, err := store.ReadAggregate(context.Background(), instanceID, "organization", aggregateID)
	require.NoError(t, err)
	events := make([]domain.Event, len(envelopes))
	for i, e := range envelopes {
		events[i] = e.Event()
	}
	return events
}
