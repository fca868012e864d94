package application

import (
	"context"

	"github.com/coreidentity/iamcore/pkg/authz"
	"github.com/coreidentity/iamcore/pkg/domain"
)

// RequireIAMMemberMiddleware rejects any request whose caller isn't an IAM
// member (or a system token). Used on the admin command/query groups, where
// every operation manages users or organizations directly.
func RequireIAMMemberMiddleware[Req any, Res any]() Middleware[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, log domain.Logger, p Payload[Req]) (Response[Res], error) {
			authzCtx, ok := authz.FromContext(ctx)
			if !ok {
				err := domain.NewPermissionDeniedError(p.UserID, "iam:member")
				var zero Res
				return Response[Res]{Data: zero, Error: err}, err
			}
			if err := authz.RequireIAMMember(authzCtx); err != nil {
				var zero Res
				return Response[Res]{Data: zero, Error: err}, err
			}
			return next(ctx, log, p)
		}
	}
}

// RequestPermission maps a command or query type string to the resource and
// action it requires, for PermissionMiddleware to enforce.
type RequestPermission struct {
	Resource string
	Action   string
}

// PermissionMiddleware enforces a per-request-type instance permission,
// looked up in perms by the request's CommandType()/QueryType(). Request
// types absent from perms are let through unchecked. Used on the public
// command/query groups, where callers may be ordinary org/project members
// rather than IAM members.
func PermissionMiddleware[Req any, Res any](perms map[string]RequestPermission) Middleware[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, log domain.Logger, p Payload[Req]) (Response[Res], error) {
			var requestType string
			switch v := any(p.Data).(type) {
			case Command:
				requestType = v.CommandType()
			case Query:
				requestType = v.QueryType()
			}

			perm, required := perms[requestType]
			if !required {
				return next(ctx, log, p)
			}

			authzCtx, ok := authz.FromContext(ctx)
			if !ok {
				err := domain.NewPermissionDeniedError(p.UserID, perm.Resource+":"+perm.Action)
				var zero Res
				return Response[Res]{Data: zero, Error: err}, err
			}
			if err := authz.RequireInstancePermission(authzCtx, authz.PermissionRequest{Resource: perm.Resource, Action: perm.Action}); err != nil {
				var zero Res
				return Response[Res]{Data: zero, Error: err}, err
			}
			return next(ctx, log, p)
		}
	}
}

// projectPermissions maps the project command/query surface (the public
// group) to the permission each one requires. Project membership is the
// one operation ordinary org members perform without being IAM members
// themselves, so it's checked per-action rather than gated on IAM
// membership as a whole.
var projectPermissions = map[string]RequestPermission{
	"CreateProject":       {Resource: "project", Action: "create"},
	"RenameProject":       {Resource: "project", Action: "rename"},
	"DeactivateProject":   {Resource: "project", Action: "deactivate"},
	"ReactivateProject":   {Resource: "project", Action: "reactivate"},
	"AddProjectMember":    {Resource: "project", Action: "member:add"},
	"RemoveProjectMember": {Resource: "project", Action: "member:remove"},
	"GetProject":          {Resource: "project", Action: "read"},
	"ListProjects":        {Resource: "project", Action: "list"},
}

// AuthzAdminCommandMiddlewareProvider gates the admin command group (user
// and organization management) on IAM membership.
func AuthzAdminCommandMiddlewareProvider() TaggedCommandMiddleware {
	return TaggedCommandMiddleware{
		Name:       "authz",
		Middleware: RequireIAMMemberMiddleware[Command, struct{}](),
	}
}

// AuthzAdminQueryMiddlewareProvider gates the admin query group on IAM
// membership.
func AuthzAdminQueryMiddlewareProvider() TaggedQueryMiddleware {
	return TaggedQueryMiddleware{
		Name:       "authz",
		Middleware: RequireIAMMemberMiddleware[Query, any](),
	}
}

// AuthzPublicCommandMiddlewareProvider gates the public command group
// (project management) on the per-command instance permission.
func AuthzPublicCommandMiddlewareProvider() TaggedCommandMiddleware {
	return TaggedCommandMiddleware{
		Name:       "authz",
		Middleware: PermissionMiddleware[Command, struct{}](projectPermissions),
	}
}

// AuthzPublicQueryMiddlewareProvider gates the public query group (project
// reads) on the per-query instance permission.
func AuthzPublicQueryMiddlewareProvider() TaggedQueryMiddleware {
	return TaggedQueryMiddleware{
		Name:       "authz",
		Middleware: PermissionMiddleware[Query, any](projectPermissions),
	}
}
