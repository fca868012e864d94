package infrastructure

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestEventStore(t *testing.T) *GormEventStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewGormEventStore(db)
	require.NoError(t, err)
	return store
}

func newTestUser(ctx context.Context, t *testing.T, instanceID, id string) *domain.User {
	t.Helper()
	u, err := domain.NewUser(ctx, instanceID, id, "ada@example.com", "Ada Lovelace", "")
	require.NoError(t, err)
	return u
}

func TestGormEventStore_PushAndReadAggregate(t *testing.T) {
	ctx := context.Background()
	store := newTestEventStore(t)

	u := newTestUser(ctx, t, "inst-1", "user-1")
	require.NoError(t, u.UpdateEmail(ctx, "ada2@example.com"))

	envelopes, err := store.Push(ctx, u.UncommittedEvents())
	require.NoError(t, err)
	require.Len(t, envelopes, 2)
	assert.Equal(t, int64(1), envelopes[0].Position())
	assert.Equal(t, int64(1), envelopes[1].Position())
	assert.Equal(t, 1, envelopes[0].InPositionOrder())
	assert.Equal(t, 2, envelopes[1].InPositionOrder())

	read, err := store.ReadAggregate(ctx, "inst-1", "user", "user-1")
	require.NoError(t, err)
	require.Len(t, read, 2)

	replay := domain.LoadUserFromHistory("user-1", []domain.Event{read[0].Event(), read[1].Event()})
	assert.Equal(t, "ada2@example.com", replay.Email())
	assert.Equal(t, int64(2), replay.Version())
}

func TestGormEventStore_PushRejectsConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	store := newTestEventStore(t)

	u := newTestUser(ctx, t, "inst-1", "user-1")
	_, err := store.Push(ctx, u.UncommittedEvents())
	require.NoError(t, err)

	stale := newTestUser(ctx, t, "inst-1", "user-1")
	_, err = store.Push(ctx, stale.UncommittedEvents())
	assert.IsType(t, domain.ConcurrencyError{}, err)
}

func TestGormEventStore_ReadSinceTailsGlobalOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestEventStore(t)

	first := newTestUser(ctx, t, "inst-1", "user-1")
	_, err := store.Push(ctx, first.UncommittedEvents())
	require.NoError(t, err)

	second := newTestUser(ctx, t, "inst-1", "user-2")
	_, err = store.Push(ctx, second.UncommittedEvents())
	require.NoError(t, err)

	all, err := store.ReadSince(ctx, 0, 100, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "user-1", all[0].Event().AggregateID())
	assert.Equal(t, "user-2", all[1].Event().AggregateID())

	rest, err := store.ReadSince(ctx, all[0].Position(), 100, nil)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "user-2", rest[0].Event().AggregateID())

	position, err := store.CurrentPosition(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), position)
}

func TestGormEventStore_ReadSinceFiltersByInstance(t *testing.T) {
	ctx := context.Background()
	store := newTestEventStore(t)

	a := newTestUser(ctx, t, "inst-a", "user-1")
	_, err := store.Push(ctx, a.UncommittedEvents())
	require.NoError(t, err)

	b := newTestUser(ctx, t, "inst-b", "user-1")
	_, err = store.Push(ctx, b.UncommittedEvents())
	require.NoError(t, err)

	filtered, err := store.ReadSince(ctx, 0, 100, &domain.EventFilter{InstanceID: "inst-b"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "inst-b", filtered[0].Event().InstanceID())
}
