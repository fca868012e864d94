package application

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]string
	history map[string][]domain.Event
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    map[string]*domain.User{},
		byEmail: map[string]string{},
		history: map[string][]domain.Event{},
	}
}

func (r *fakeUserRepository) Save(ctx context.Context, user *domain.User) error {
	r.byID[user.ID()] = user
	r.byEmail[user.Email()] = user.ID()
	user.MarkEventsAsCommitted()
	return nil
}

// applyEvents stands in for the composite repository's event-sourcing half:
// it appends newly committed events to the aggregate's history and
// reconstructs the current state from the full stream, the same way a real
// unit of work's Commit durably persists events that Load later replays.
func (r *fakeUserRepository) applyEvents(events []domain.Event) {
	if len(events) == 0 {
		return
	}
	id := events[0].AggregateID()
	r.history[id] = append(r.history[id], events...)
	user := domain.LoadUserFromHistory(id, r.history[id])
	r.byID[id] = user
	r.byEmail[user.Email()] = id
}

func (r *fakeUserRepository) Load(ctx context.Context, instanceID, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id)
	}
	return u, nil
}

func (r *fakeUserRepository) FindByEmail(ctx context.Context, instanceID, email string) (*domain.User, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.NewNotFoundError("user", email)
	}
	return r.byID[id], nil
}

func (r *fakeUserRepository) Exists(ctx context.Context, instanceID, id string) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func (r *fakeUserRepository) ExistsByEmail(ctx context.Context, instanceID, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

// fakeUnitOfWork stands in for the real, eventstore-backed UnitOfWork:
// Commit hands the registered events to apply (usually a fake repository's
// applyEvents) instead of pushing them anywhere, mirroring how a real
// UnitOfWork's Commit durably persists before any read-side effect happens.
type fakeUnitOfWork struct {
	events []domain.Event
	apply  func([]domain.Event)
}

func (u *fakeUnitOfWork) RegisterEvents(events []domain.Event) { u.events = append(u.events, events...) }
func (u *fakeUnitOfWork) Commit(ctx context.Context) ([]domain.Envelope, error) {
	events := u.events
	u.events = nil
	if u.apply != nil {
		u.apply(events)
	}
	return nil, nil
}
func (u *fakeUnitOfWork) Rollback() error { u.events = nil; return nil }

// uowFactory builds a domain.UnitOfWorkFactory whose UnitOfWork instances
// all commit into the same apply callback, matching how production code
// builds a fresh UnitOfWork per command over the same durable eventstore.
func uowFactory(apply func([]domain.Event)) domain.UnitOfWorkFactory {
	return func() domain.UnitOfWork { return &fakeUnitOfWork{apply: apply} }
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) Fatal(string, ...interface{}) {}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Fatalf(string, ...interface{}) {}

func TestCreateUserHandler_RejectsDuplicateIDAndEmail(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	handler := NewCreateUserHandler(repo, uowFactory(repo.applyEvents))

	cmd := CreateUserCommand{InstanceID: "inst-1", ID: "user-1", Email: "ada@example.com", Name: "Ada Lovelace"}
	require.NoError(t, handler.Handle(ctx, noopLogger{}, cmd))

	err := handler.Handle(ctx, noopLogger{}, cmd)
	require.Error(t, err)
	assert.IsType(t, ApplicationError{}, err)

	dup := CreateUserCommand{InstanceID: "inst-1", ID: "user-2", Email: "ada@example.com", Name: "Grace Hopper"}
	err = handler.Handle(ctx, noopLogger{}, dup)
	require.Error(t, err)
}

func TestUpdateUserEmailHandler_RejectsEmailHeldByAnotherUser(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	factory := uowFactory(repo.applyEvents)
	createHandler := NewCreateUserHandler(repo, factory)
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateUserCommand{
		InstanceID: "inst-1", ID: "user-1", Email: "ada@example.com", Name: "Ada Lovelace",
	}))
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateUserCommand{
		InstanceID: "inst-1", ID: "user-2", Email: "grace@example.com", Name: "Grace Hopper",
	}))

	updateHandler := NewUpdateUserEmailHandler(repo, factory)
	err := updateHandler.Handle(ctx, noopLogger{}, UpdateUserEmailCommand{
		InstanceID: "inst-1", ID: "user-1", NewEmail: "grace@example.com",
	})
	require.Error(t, err)

	require.NoError(t, updateHandler.Handle(ctx, noopLogger{}, UpdateUserEmailCommand{
		InstanceID: "inst-1", ID: "user-1", NewEmail: "ada2@example.com",
	}))
	updated, err := repo.Load(ctx, "inst-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ada2@example.com", updated.Email())
}

func TestDeactivateAndReactivateUserHandler(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	factory := uowFactory(repo.applyEvents)
	createHandler := NewCreateUserHandler(repo, factory)
	require.NoError(t, createHandler.Handle(ctx, noopLogger{}, CreateUserCommand{
		InstanceID: "inst-1", ID: "user-1", Email: "ada@example.com", Name: "Ada Lovelace",
	}))

	deactivateHandler := NewDeactivateUserHandler(repo, factory)
	require.NoError(t, deactivateHandler.Handle(ctx, noopLogger{}, DeactivateUserCommand{
		InstanceID: "inst-1", ID: "user-1", Reason: "policy",
	}))
	u, err := repo.Load(ctx, "inst-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateInactive, u.State())

	reactivateHandler := NewReactivateUserHandler(repo, factory)
	require.NoError(t, reactivateHandler.Handle(ctx, noopLogger{}, ReactivateUserCommand{
		InstanceID: "inst-1", ID: "user-1",
	}))
	u, err = repo.Load(ctx, "inst-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateActive, u.State())
}
