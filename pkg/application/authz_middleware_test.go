package application

import (
	"context"
	"testing"

	"github.com/coreidentity/iamcore/pkg/authz"
	"github.com/coreidentity/iamcore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passthroughHandler() Handler[Command, struct{}] {
	return func(ctx context.Context, log domain.Logger, p Payload[Command]) (Response[struct{}], error) {
		return Response[struct{}]{Data: struct{}{}}, nil
	}
}

func TestRequireIAMMemberMiddleware_RejectsNonMember(t *testing.T) {
	mw := RequireIAMMemberMiddleware[Command, struct{}]()
	handler := mw(passthroughHandler())

	ctx := authz.WithContext(context.Background(), authz.Context{
		Subject: authz.Subject{UserID: "user-1", Roles: []string{"member"}},
	})

	_, err := handler(ctx, noopLogger{}, Payload[Command]{Data: DeactivateUserCommand{ID: "user-2"}})
	require.Error(t, err)
	assert.IsType(t, domain.PermissionDeniedError{}, err)
}

func TestRequireIAMMemberMiddleware_AllowsIAMAdmin(t *testing.T) {
	mw := RequireIAMMemberMiddleware[Command, struct{}]()
	handler := mw(passthroughHandler())

	ctx := authz.WithContext(context.Background(), authz.Context{
		Subject: authz.Subject{UserID: "user-1", Roles: []string{"iam_admin"}},
	})

	_, err := handler(ctx, noopLogger{}, Payload[Command]{Data: DeactivateUserCommand{ID: "user-2"}})
	require.NoError(t, err)
}

func TestRequireIAMMemberMiddleware_RejectsMissingContext(t *testing.T) {
	mw := RequireIAMMemberMiddleware[Command, struct{}]()
	handler := mw(passthroughHandler())

	_, err := handler(context.Background(), noopLogger{}, Payload[Command]{Data: DeactivateUserCommand{ID: "user-2"}})
	require.Error(t, err)
}

func TestPermissionMiddleware_EnforcesPerCommandPermission(t *testing.T) {
	mw := PermissionMiddleware[Command, struct{}](projectPermissions)
	handler := mw(passthroughHandler())

	memberCtx := authz.WithContext(context.Background(), authz.Context{
		Subject: authz.Subject{UserID: "user-1", Permissions: []string{"project:create"}},
	})

	cmd := CreateProjectCommand{ID: "proj-1"}
	_, err := handler(memberCtx, noopLogger{}, Payload[Command]{Data: cmd})
	require.NoError(t, err)

	deactivate := DeactivateProjectCommand{ID: "proj-1"}
	_, err = handler(memberCtx, noopLogger{}, Payload[Command]{Data: deactivate})
	require.Error(t, err)
	assert.IsType(t, domain.PermissionDeniedError{}, err)
}

func TestPermissionMiddleware_LetsUnmappedRequestTypesThrough(t *testing.T) {
	mw := PermissionMiddleware[Command, struct{}](projectPermissions)
	handler := mw(passthroughHandler())

	_, err := handler(context.Background(), noopLogger{}, Payload[Command]{Data: UpdateUserEmailCommand{ID: "user-1"}})
	require.NoError(t, err)
}
