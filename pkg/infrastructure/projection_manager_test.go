package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingProjection struct {
	mu     sync.Mutex
	events []domain.Event
	reset  bool
}

func (p *recordingProjection) Name() string          { return "recording" }
func (p *recordingProjection) EventTypes() []string   { return nil }
func (p *recordingProjection) Reset(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset = true
	p.events = nil
	return nil
}

func (p *recordingProjection) Apply(ctx context.Context, envelope domain.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, envelope.Event())
	return nil
}

func (p *recordingProjection) seen() []domain.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.Event, len(p.events))
	copy(out, p.events)
	return out
}

func newProjectionTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ProjectionState{}, &ProjectionLock{}))
	return db
}

func TestProjectionManager_TailsEventsInOrder(t *testing.T) {
	db := newProjectionTestDB(t)
	store, err := NewGormEventStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	u := newTestUser(ctx, t, "inst-1", "user-1")
	_, err = store.Push(ctx, u.UncommittedEvents())
	require.NoError(t, err)

	logger := NewLogger("error", "text")
	manager := NewProjectionManager(db, store, logger, "worker-1")
	projection := &recordingProjection{}
	manager.Register(projection)

	runCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = manager.Start(runCtx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(projection.seen()) == 1
	}, 250*time.Millisecond, 10*time.Millisecond)

	<-done
	assert.Equal(t, "user.created", projection.seen()[0].EventType())
}

func TestProjectionManager_RebuildResetsAndReplays(t *testing.T) {
	db := newProjectionTestDB(t)
	store, err := NewGormEventStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	u := newTestUser(ctx, t, "inst-1", "user-1")
	_, err = store.Push(ctx, u.UncommittedEvents())
	require.NoError(t, err)

	logger := NewLogger("error", "text")
	manager := NewProjectionManager(db, store, logger, "worker-1")
	projection := &recordingProjection{}
	manager.Register(projection)

	require.NoError(t, manager.Rebuild(ctx, "recording"))
	assert.True(t, projection.reset)

	require.Len(t, projection.seen(), 1)
	assert.Equal(t, "user.created", projection.seen()[0].EventType())

	var state ProjectionState
	require.NoError(t, db.First(&state, ProjectionState{Name: "recording"}).Error)
	assert.Equal(t, int64(1), state.Position)
	assert.Equal(t, ProjectionRunning, state.Status)
}

func TestProjectionManager_RebuildIsSynchronousWithNoWorkerRunning(t *testing.T) {
	db := newProjectionTestDB(t)
	store, err := NewGormEventStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		u := newTestUser(ctx, t, "inst-1", fmt.Sprintf("user-%d", i))
		_, err = store.Push(ctx, u.UncommittedEvents())
		require.NoError(t, err)
	}

	manager := NewProjectionManager(db, store, NewLogger("error", "text"), "worker-1")
	projection := &recordingProjection{}
	manager.Register(projection)

	// No worker loop is started: Rebuild must drain the log on its own.
	require.NoError(t, manager.Rebuild(ctx, "recording"))
	assert.Len(t, projection.seen(), 3)
}

func TestProjectionManager_RebuildUnknownProjectionErrors(t *testing.T) {
	db := newProjectionTestDB(t)
	store, err := NewGormEventStore(db)
	require.NoError(t, err)

	manager := NewProjectionManager(db, store, NewLogger("error", "text"), "worker-1")
	err = manager.Rebuild(context.Background(), "missing")
	assert.Error(t, err)
}
