//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/coreidentity/iamcore/internal/infrastructure"
	"github.com/coreidentity/iamcore/internal/projection"
	"github.com/coreidentity/iamcore/pkg/application"
	"github.com/coreidentity/iamcore/pkg/domain"
	pkginfra "github.com/coreidentity/iamcore/pkg/infrastructure"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// system bundles the repositories, handlers, and projections exercised by
// the end-to-end flow below, wired by hand instead of through fx so the
// test controls exactly when events are pushed and projected.
type system struct {
	db         *gorm.DB
	eventStore *pkginfra.GormEventStore

	userRepo domain.UserRepository
	orgRepo  domain.OrganizationRepository

	userProjection *projection.UserProjection
	orgProjection  *projection.OrganizationProjection
	membership     *projection.MembershipProjection

	createUser   *application.CreateUserHandler
	deactivate   *application.DeactivateUserHandler
	reactivate   *application.ReactivateUserHandler
	getUser      *application.GetUserHandler
	getUserEmail *application.GetUserByEmailHandler
	listUsers    *application.ListUsersHandler

	createOrg *application.CreateOrganizationHandler
	rename    *application.RenameOrganizationHandler
	addMember *application.AddOrganizationMemberHandler
}

func setupSystem(t *testing.T, driver, dsn string) *system {
	t.Helper()
	var db *gorm.DB
	var err error
	switch driver {
	case "sqlite":
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		t.Fatalf("unsupported driver %q", driver)
	}
	require.NoError(t, err)

	eventStore, err := pkginfra.NewGormEventStore(db)
	require.NoError(t, err)
	logger := pkginfra.NewLogger("error", "text")
	dispatcher, err := pkginfra.NewWatermillEventDispatcher(nil)
	require.NoError(t, err)
	uowFactory := pkginfra.NewUnitOfWorkFactory(eventStore, dispatcher)

	userReadModel := infrastructure.NewUserReadModelGORMRepository(db)
	require.NoError(t, userReadModel.Migrate())
	orgReadModel := infrastructure.NewOrganizationReadModelGORMRepository(db)
	require.NoError(t, orgReadModel.Migrate())

	membership := projection.NewMembershipProjection(db)
	require.NoError(t, membership.Migrate())

	userRepo := infrastructure.NewUserRepositoryComposite(
		infrastructure.NewUserEventSourcingRepository(eventStore, logger), userReadModel)
	orgRepo := infrastructure.NewOrganizationRepositoryComposite(
		infrastructure.NewOrganizationEventSourcingRepository(eventStore, logger), orgReadModel)

	return &system{
		db:             db,
		eventStore:     eventStore,
		userRepo:       userRepo,
		orgRepo:        orgRepo,
		userProjection: projection.NewUserProjection(db),
		orgProjection:  projection.NewOrganizationProjection(db),
		membership:     membership,

		createUser:   application.NewCreateUserHandler(userRepo, uowFactory),
		deactivate:   application.NewDeactivateUserHandler(userRepo, uowFactory),
		reactivate:   application.NewReactivateUserHandler(userRepo, uowFactory),
		getUser:      application.NewGetUserHandler(userReadModel),
		getUserEmail: application.NewGetUserByEmailHandler(userReadModel),
		listUsers:    application.NewListUsersHandler(userReadModel),

		createOrg: application.NewCreateOrganizationHandler(orgRepo, uowFactory),
		rename:    application.NewRenameOrganizationHandler(orgRepo, uowFactory),
		addMember: application.NewAddOrganizationMemberHandler(orgRepo, uowFactory),
	}
}

// project replays every event pushed since the last call through both the
// aggregate read model projections and the membership edge projection,
// standing in for the asynchronous ProjectionManager in a deterministic test.
func (s *system) project(t *testing.T, instanceID, aggregateType, aggregateID string) {
	t.Helper()
	ctx := context.Background()
	envelopes, err := s.eventStore.ReadAggregate(ctx, instanceID, aggregateType, aggregateID)
	require.NoError(t, err)
	for _, e := range envelopes {
		switch aggregateType {
		case "user":
			require.NoError(t, s.userProjection.Apply(ctx, e))
		case "organization":
			require.NoError(t, s.orgProjection.Apply(ctx, e))
		}
		require.NoError(t, s.membership.Apply(ctx, e))
	}
}

func TestEndToEndFlow(t *testing.T) {
	type target struct {
		name, driver, dsn string
	}
	targets := []target{{name: "SQLite", driver: "sqlite", dsn: ":memory:"}}
	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		targets = append(targets, target{name: "PostgreSQL", driver: "postgres", dsn: dsn})
	}

	for _, tt := range targets {
		t.Run(tt.name, func(t *testing.T) {
			sys := setupSystem(t, tt.driver, tt.dsn)
			t.Run("UserLifecycle", func(t *testing.T) { testUserLifecycle(t, sys) })
			t.Run("OrganizationMembership", func(t *testing.T) { testOrganizationMembership(t, sys) })
			t.Run("ErrorHandling", func(t *testing.T) { testErrorHandling(t, sys) })
		})
	}
}

func testUserLifecycle(t *testing.T, sys *system) {
	ctx := context.Background()
	const instanceID = "inst-lifecycle"

	require.NoError(t, sys.createUser.Handle(ctx, noopLogger{}, application.CreateUserCommand{
		InstanceID: instanceID, ID: "user-1", Email: "lifecycle@example.com", Name: "Lifecycle User",
	}))
	sys.project(t, instanceID, "user", "user-1")

	dto, err := sys.getUser.Handle(ctx, noopLogger{}, application.GetUserQuery{InstanceID: instanceID, ID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, "lifecycle@example.com", dto.Email)
	require.Equal(t, string(domain.StateActive), dto.State)

	byEmail, err := sys.getUserEmail.Handle(ctx, noopLogger{}, application.GetUserByEmailQuery{InstanceID: instanceID, Email: "lifecycle@example.com"})
	require.NoError(t, err)
	require.Equal(t, "user-1", byEmail.ID)

	require.NoError(t, sys.deactivate.Handle(ctx, noopLogger{}, application.DeactivateUserCommand{
		InstanceID: instanceID, ID: "user-1", Reason: "policy",
	}))
	sys.project(t, instanceID, "user", "user-1")

	dto, err = sys.getUser.Handle(ctx, noopLogger{}, application.GetUserQuery{InstanceID: instanceID, ID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, string(domain.StateInactive), dto.State)

	require.NoError(t, sys.reactivate.Handle(ctx, noopLogger{}, application.ReactivateUserCommand{
		InstanceID: instanceID, ID: "user-1",
	}))
	sys.project(t, instanceID, "user", "user-1")

	dto, err = sys.getUser.Handle(ctx, noopLogger{}, application.GetUserQuery{InstanceID: instanceID, ID: "user-1"})
	require.NoError(t, err)
	require.Equal(t, string(domain.StateActive), dto.State)

	listed, err := sys.listUsers.Handle(ctx, noopLogger{}, application.ListUsersQuery{InstanceID: instanceID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, listed.TotalCount)
}

func testOrganizationMembership(t *testing.T, sys *system) {
	ctx := context.Background()
	const instanceID = "inst-membership"

	require.NoError(t, sys.createOrg.Handle(ctx, noopLogger{}, application.CreateOrganizationCommand{
		InstanceID: instanceID, ID: "org-1", Name: "Acme", Slug: "acme",
	}))
	sys.project(t, instanceID, "organization", "org-1")

	require.NoError(t, sys.addMember.Handle(ctx, noopLogger{}, application.AddOrganizationMemberCommand{
		InstanceID: instanceID, ID: "org-1", UserID: "user-1", Role: "member",
	}))
	sys.project(t, instanceID, "organization", "org-1")

	var edge projection.OrgMemberGORM
	require.NoError(t, sys.db.Where("instance_id = ? AND org_id = ? AND user_id = ?", instanceID, "org-1", "user-1").First(&edge).Error)
	require.Equal(t, "member", edge.Role)

	require.NoError(t, sys.rename.Handle(ctx, noopLogger{}, application.RenameOrganizationCommand{
		InstanceID: instanceID, ID: "org-1", NewName: "Acme Corp",
	}))
	sys.project(t, instanceID, "organization", "org-1")

	var row infrastructure.OrganizationReadModelGORM
	require.NoError(t, sys.db.Where("instance_id = ? AND id = ?", instanceID, "org-1").First(&row).Error)
	require.Equal(t, "Acme Corp", row.Name)
}

func testErrorHandling(t *testing.T, sys *system) {
	ctx := context.Background()
	const instanceID = "inst-errors"

	require.NoError(t, sys.createUser.Handle(ctx, noopLogger{}, application.CreateUserCommand{
		InstanceID: instanceID, ID: "user-dup-1", Email: "duplicate@example.com", Name: "User 1",
	}))
	sys.project(t, instanceID, "user", "user-dup-1")

	err := sys.createUser.Handle(ctx, noopLogger{}, application.CreateUserCommand{
		InstanceID: instanceID, ID: "user-dup-2", Email: "duplicate@example.com", Name: "User 2",
	})
	require.Error(t, err)

	err = sys.deactivate.Handle(ctx, noopLogger{}, application.DeactivateUserCommand{
		InstanceID: instanceID, ID: "missing-user", Reason: "n/a",
	})
	require.Error(t, err)

	_, err = sys.getUser.Handle(ctx, noopLogger{}, application.GetUserQuery{InstanceID: instanceID, ID: "missing-user"})
	require.Error(t, err)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{})  {}
func (noopLogger) Info(string, ...interface{})   {}
func (noopLogger) Warn(string, ...interface{})   {}
func (noopLogger) Error(string, ...interface{})  {}
func (noopLogger) Fatal(string, ...interface{})  {}
func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Warnf(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}
func (noopLogger) Fatalf(string, ...interface{}) {}
