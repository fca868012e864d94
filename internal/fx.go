package internal

import (
	"context"
	"fmt"

	"github.com/coreidentity/iamcore/internal/infrastructure"
	"github.com/coreidentity/iamcore/internal/projection"
	"github.com/coreidentity/iamcore/pkg/application"
	"github.com/coreidentity/iamcore/pkg/domain"
	pkginfra "github.com/coreidentity/iamcore/pkg/infrastructure"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// InternalModule provides every domain-specific dependency: repositories,
// command/query handlers, tagged handlers for bus registration, and
// projections registered with the shared ProjectionManager.
var InternalModule = fx.Options(
	fx.Provide(
		// Repositories
		UserReadModelRepositoryProvider,
		UserRepositoryCompositeProvider,
		OrganizationReadModelRepositoryProvider,
		OrganizationRepositoryCompositeProvider,
		ProjectReadModelRepositoryProvider,
		ProjectRepositoryCompositeProvider,

		// Projections
		UserProjectionProvider,
		OrganizationProjectionProvider,
		ProjectProjectionProvider,
		MembershipProjectionProvider,

		// User handlers
		CreateUserHandlerProvider,
		UpdateUserEmailHandlerProvider,
		DeactivateUserHandlerProvider,
		ReactivateUserHandlerProvider,
		GetUserHandlerProvider,
		GetUserByEmailHandlerProvider,
		ListUsersHandlerProvider,

		// Organization handlers
		CreateOrganizationHandlerProvider,
		RenameOrganizationHandlerProvider,
		AddOrganizationMemberHandlerProvider,
		RemoveOrganizationMemberHandlerProvider,
		DeactivateOrganizationHandlerProvider,
		ReactivateOrganizationHandlerProvider,
		GetOrganizationHandlerProvider,
		ListOrganizationsHandlerProvider,

		// Project handlers
		CreateProjectHandlerProvider,
		RenameProjectHandlerProvider,
		AddProjectMemberHandlerProvider,
		RemoveProjectMemberHandlerProvider,
		DeactivateProjectHandlerProvider,
		ReactivateProjectHandlerProvider,
		GetProjectHandlerProvider,
		ListProjectsHandlerProvider,

		// Tagged handlers for bus registration. User and organization
		// management are exposed on the admin surface; project membership
		// operations, scoped to a caller's own org, are public.
		fx.Annotate(CreateUserTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(UpdateUserEmailTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(DeactivateUserTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(ReactivateUserTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(GetUserTaggedHandlerProvider, fx.ResultTags(`group:"admin_query_handlers"`)),
		fx.Annotate(GetUserByEmailTaggedHandlerProvider, fx.ResultTags(`group:"admin_query_handlers"`)),
		fx.Annotate(ListUsersTaggedHandlerProvider, fx.ResultTags(`group:"admin_query_handlers"`)),

		fx.Annotate(CreateOrganizationTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(RenameOrganizationTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(AddOrganizationMemberTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(RemoveOrganizationMemberTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(DeactivateOrganizationTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(ReactivateOrganizationTaggedHandlerProvider, fx.ResultTags(`group:"admin_command_handlers"`)),
		fx.Annotate(GetOrganizationTaggedHandlerProvider, fx.ResultTags(`group:"admin_query_handlers"`)),
		fx.Annotate(ListOrganizationsTaggedHandlerProvider, fx.ResultTags(`group:"admin_query_handlers"`)),

		fx.Annotate(CreateProjectTaggedHandlerProvider, fx.ResultTags(`group:"public_command_handlers"`)),
		fx.Annotate(RenameProjectTaggedHandlerProvider, fx.ResultTags(`group:"public_command_handlers"`)),
		fx.Annotate(AddProjectMemberTaggedHandlerProvider, fx.ResultTags(`group:"public_command_handlers"`)),
		fx.Annotate(RemoveProjectMemberTaggedHandlerProvider, fx.ResultTags(`group:"public_command_handlers"`)),
		fx.Annotate(DeactivateProjectTaggedHandlerProvider, fx.ResultTags(`group:"public_command_handlers"`)),
		fx.Annotate(ReactivateProjectTaggedHandlerProvider, fx.ResultTags(`group:"public_command_handlers"`)),
		fx.Annotate(GetProjectTaggedHandlerProvider, fx.ResultTags(`group:"public_query_handlers"`)),
		fx.Annotate(ListProjectsTaggedHandlerProvider, fx.ResultTags(`group:"public_query_handlers"`)),
	),
	fx.Invoke(
		RegisterProjections,
	),
)

// --- Repositories ---

func UserReadModelRepositoryProvider(db *gorm.DB, schema *pkginfra.SchemaLoader) application.UserReadModelRepository {
	repo := infrastructure.NewUserReadModelGORMRepository(db)
	schema.RegisterTables("0002", "user read model", &infrastructure.UserReadModelGORM{})
	return repo
}

func UserRepositoryCompositeProvider(
	eventStore domain.EventStore,
	logger domain.Logger,
	readModelRepo application.UserReadModelRepository,
) domain.UserRepository {
	eventSourcingRepo := infrastructure.NewUserEventSourcingRepository(eventStore, logger)
	gormReadModel := readModelRepo.(*infrastructure.UserReadModelGORMRepository)
	return infrastructure.NewUserRepositoryComposite(eventSourcingRepo, gormReadModel)
}

func OrganizationReadModelRepositoryProvider(db *gorm.DB, schema *pkginfra.SchemaLoader) application.OrganizationReadModelRepository {
	repo := infrastructure.NewOrganizationReadModelGORMRepository(db)
	schema.RegisterTables("0003", "organization read model", &infrastructure.OrganizationReadModelGORM{})
	return repo
}

func OrganizationRepositoryCompositeProvider(
	eventStore domain.EventStore,
	logger domain.Logger,
	readModelRepo application.OrganizationReadModelRepository,
) domain.OrganizationRepository {
	eventSourcingRepo := infrastructure.NewOrganizationEventSourcingRepository(eventStore, logger)
	gormReadModel := readModelRepo.(*infrastructure.OrganizationReadModelGORMRepository)
	return infrastructure.NewOrganizationRepositoryComposite(eventSourcingRepo, gormReadModel)
}

func ProjectReadModelRepositoryProvider(db *gorm.DB, schema *pkginfra.SchemaLoader) application.ProjectReadModelRepository {
	repo := infrastructure.NewProjectReadModelGORMRepository(db)
	schema.RegisterTables("0004", "project read model", &infrastructure.ProjectReadModelGORM{})
	return repo
}

func ProjectRepositoryCompositeProvider(
	eventStore domain.EventStore,
	logger domain.Logger,
	readModelRepo application.ProjectReadModelRepository,
) domain.ProjectRepository {
	eventSourcingRepo := infrastructure.NewProjectEventSourcingRepository(eventStore, logger)
	gormReadModel := readModelRepo.(*infrastructure.ProjectReadModelGORMRepository)
	return infrastructure.NewProjectRepositoryComposite(eventSourcingRepo, gormReadModel)
}

// --- Projections ---

func UserProjectionProvider(db *gorm.DB) *projection.UserProjection {
	return projection.NewUserProjection(db)
}

func OrganizationProjectionProvider(db *gorm.DB) *projection.OrganizationProjection {
	return projection.NewOrganizationProjection(db)
}

func ProjectProjectionProvider(db *gorm.DB) *projection.ProjectProjection {
	return projection.NewProjectProjection(db)
}

func MembershipProjectionProvider(db *gorm.DB, schema *pkginfra.SchemaLoader) *projection.MembershipProjection {
	p := projection.NewMembershipProjection(db)
	schema.RegisterTables("0005", "membership projection tables", &projection.OrgMemberGORM{}, &projection.ProjectMemberGORM{})
	return p
}

// RegisterProjections registers every projection with the shared
// ProjectionManager before its OnStart hook begins tailing the eventstore.
func RegisterProjections(
	manager *pkginfra.ProjectionManager,
	userProjection *projection.UserProjection,
	orgProjection *projection.OrganizationProjection,
	projectProjection *projection.ProjectProjection,
	membershipProjection *projection.MembershipProjection,
) {
	manager.Register(userProjection)
	manager.Register(orgProjection)
	manager.Register(projectProjection)
	manager.Register(membershipProjection)
}

// --- User handlers ---

func CreateUserHandlerProvider(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *application.CreateUserHandler {
	return application.NewCreateUserHandler(userRepo, unitOfWork)
}

func UpdateUserEmailHandlerProvider(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *application.UpdateUserEmailHandler {
	return application.NewUpdateUserEmailHandler(userRepo, unitOfWork)
}

func DeactivateUserHandlerProvider(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *application.DeactivateUserHandler {
	return application.NewDeactivateUserHandler(userRepo, unitOfWork)
}

func ReactivateUserHandlerProvider(userRepo domain.UserRepository, unitOfWork domain.UnitOfWorkFactory) *application.ReactivateUserHandler {
	return application.NewReactivateUserHandler(userRepo, unitOfWork)
}

func GetUserHandlerProvider(readModelRepo application.UserReadModelRepository) *application.GetUserHandler {
	return application.NewGetUserHandler(readModelRepo)
}

func GetUserByEmailHandlerProvider(readModelRepo application.UserReadModelRepository) *application.GetUserByEmailHandler {
	return application.NewGetUserByEmailHandler(readModelRepo)
}

func ListUsersHandlerProvider(readModelRepo application.UserReadModelRepository) *application.ListUsersHandler {
	return application.NewListUsersHandler(readModelRepo)
}

// --- Organization handlers ---

func CreateOrganizationHandlerProvider(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *application.CreateOrganizationHandler {
	return application.NewCreateOrganizationHandler(orgRepo, unitOfWork)
}

func RenameOrganizationHandlerProvider(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *application.RenameOrganizationHandler {
	return application.NewRenameOrganizationHandler(orgRepo, unitOfWork)
}

func AddOrganizationMemberHandlerProvider(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *application.AddOrganizationMemberHandler {
	return application.NewAddOrganizationMemberHandler(orgRepo, unitOfWork)
}

func RemoveOrganizationMemberHandlerProvider(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *application.RemoveOrganizationMemberHandler {
	return application.NewRemoveOrganizationMemberHandler(orgRepo, unitOfWork)
}

func DeactivateOrganizationHandlerProvider(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *application.DeactivateOrganizationHandler {
	return application.NewDeactivateOrganizationHandler(orgRepo, unitOfWork)
}

func ReactivateOrganizationHandlerProvider(orgRepo domain.OrganizationRepository, unitOfWork domain.UnitOfWorkFactory) *application.ReactivateOrganizationHandler {
	return application.NewReactivateOrganizationHandler(orgRepo, unitOfWork)
}

func GetOrganizationHandlerProvider(readModelRepo application.OrganizationReadModelRepository) *application.GetOrganizationHandler {
	return application.NewGetOrganizationHandler(readModelRepo)
}

func ListOrganizationsHandlerProvider(readModelRepo application.OrganizationReadModelRepository) *application.ListOrganizationsHandler {
	return application.NewListOrganizationsHandler(readModelRepo)
}

// --- Project handlers ---

func CreateProjectHandlerProvider(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *application.CreateProjectHandler {
	return application.NewCreateProjectHandler(projectRepo, unitOfWork)
}

func RenameProjectHandlerProvider(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *application.RenameProjectHandler {
	return application.NewRenameProjectHandler(projectRepo, unitOfWork)
}

func AddProjectMemberHandlerProvider(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *application.AddProjectMemberHandler {
	return application.NewAddProjectMemberHandler(projectRepo, unitOfWork)
}

func RemoveProjectMemberHandlerProvider(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *application.RemoveProjectMemberHandler {
	return application.NewRemoveProjectMemberHandler(projectRepo, unitOfWork)
}

func DeactivateProjectHandlerProvider(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *application.DeactivateProjectHandler {
	return application.NewDeactivateProjectHandler(projectRepo, unitOfWork)
}

func ReactivateProjectHandlerProvider(projectRepo domain.ProjectRepository, unitOfWork domain.UnitOfWorkFactory) *application.ReactivateProjectHandler {
	return application.NewReactivateProjectHandler(projectRepo, unitOfWork)
}

func GetProjectHandlerProvider(readModelRepo application.ProjectReadModelRepository) *application.GetProjectHandler {
	return application.NewGetProjectHandler(readModelRepo)
}

func ListProjectsHandlerProvider(readModelRepo application.ProjectReadModelRepository) *application.ListProjectsHandler {
	return application.NewListProjectsHandler(readModelRepo)
}

// --- Tagged handler providers: User ---

func CreateUserTaggedHandlerProvider(handler *application.CreateUserHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "CreateUser",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.CreateUserCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func UpdateUserEmailTaggedHandlerProvider(handler *application.UpdateUserEmailHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "UpdateUserEmail",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.UpdateUserEmailCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func DeactivateUserTaggedHandlerProvider(handler *application.DeactivateUserHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "DeactivateUser",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.DeactivateUserCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func ReactivateUserTaggedHandlerProvider(handler *application.ReactivateUserHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "ReactivateUser",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.ReactivateUserCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func GetUserTaggedHandlerProvider(handler *application.GetUserHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "GetUser",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.GetUserQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}

func GetUserByEmailTaggedHandlerProvider(handler *application.GetUserByEmailHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "GetUserByEmail",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.GetUserByEmailQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}

func ListUsersTaggedHandlerProvider(handler *application.ListUsersHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "ListUsers",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.ListUsersQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}

// --- Tagged handler providers: Organization ---

func CreateOrganizationTaggedHandlerProvider(handler *application.CreateOrganizationHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "CreateOrganization",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.CreateOrganizationCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func RenameOrganizationTaggedHandlerProvider(handler *application.RenameOrganizationHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "RenameOrganization",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.RenameOrganizationCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func AddOrganizationMemberTaggedHandlerProvider(handler *application.AddOrganizationMemberHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "AddOrganizationMember",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.AddOrganizationMemberCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func RemoveOrganizationMemberTaggedHandlerProvider(handler *application.RemoveOrganizationMemberHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "RemoveOrganizationMember",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.RemoveOrganizationMemberCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func DeactivateOrganizationTaggedHandlerProvider(handler *application.DeactivateOrganizationHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "DeactivateOrganization",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.DeactivateOrganizationCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func ReactivateOrganizationTaggedHandlerProvider(handler *application.ReactivateOrganizationHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "ReactivateOrganization",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.ReactivateOrganizationCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func GetOrganizationTaggedHandlerProvider(handler *application.GetOrganizationHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "GetOrganization",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.GetOrganizationQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}

func ListOrganizationsTaggedHandlerProvider(handler *application.ListOrganizationsHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "ListOrganizations",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.ListOrganizationsQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}

// --- Tagged handler providers: Project ---

func CreateProjectTaggedHandlerProvider(handler *application.CreateProjectHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "CreateProject",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.CreateProjectCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func RenameProjectTaggedHandlerProvider(handler *application.RenameProjectHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "RenameProject",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.RenameProjectCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func AddProjectMemberTaggedHandlerProvider(handler *application.AddProjectMemberHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "AddProjectMember",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.AddProjectMemberCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func RemoveProjectMemberTaggedHandlerProvider(handler *application.RemoveProjectMemberHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "RemoveProjectMember",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.RemoveProjectMemberCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func DeactivateProjectTaggedHandlerProvider(handler *application.DeactivateProjectHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "DeactivateProject",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.DeactivateProjectCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func ReactivateProjectTaggedHandlerProvider(handler *application.ReactivateProjectHandler) application.TaggedCommandHandler {
	return application.TaggedCommandHandler{
		CommandType: "ReactivateProject",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Command]) (application.Response[struct{}], error) {
			cmd, ok := p.Data.(application.ReactivateProjectCommand)
			if !ok {
				return application.Response[struct{}]{}, fmt.Errorf("invalid command type")
			}
			err := handler.Handle(ctx, log, cmd)
			return application.Response[struct{}]{Data: struct{}{}}, err
		},
	}
}

func GetProjectTaggedHandlerProvider(handler *application.GetProjectHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "GetProject",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.GetProjectQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}

func ListProjectsTaggedHandlerProvider(handler *application.ListProjectsHandler) application.TaggedQueryHandler {
	return application.TaggedQueryHandler{
		QueryType: "ListProjects",
		Handler: func(ctx context.Context, log domain.Logger, p application.Payload[application.Query]) (application.Response[any], error) {
			query, ok := p.Data.(application.ListProjectsQuery)
			if !ok {
				return application.Response[any]{}, fmt.Errorf("invalid query type")
			}
			result, err := handler.Handle(ctx, log, query)
			return application.Response[any]{Data: result}, err
		},
	}
}
