package authz

import (
	"strings"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	"github.com/coreidentity/iamcore/pkg/domain"
)

var elevatedRoles = map[string]struct{}{
	"iam_owner":    {},
	"iam_admin":    {},
	"system_admin": {},
}

// IsIAMMember reports whether ctx's subject holds an elevated IAM role.
// System tokens are always treated as members.
func IsIAMMember(ctx Context) bool {
	if ctx.IsSystemToken {
		return true
	}
	for _, role := range ctx.Subject.Roles {
		if _, ok := elevatedRoles[strings.ToLower(role)]; ok {
			return true
		}
	}
	return false
}

// PermissionRequest names the resource and action a handler wants to
// perform, e.g. {Resource: "project", Action: "delete"}.
type PermissionRequest struct {
	Resource string
	Action   string
}

// HasInstancePermission reports whether ctx's subject is authorized for
// req: system tokens and IAM members always pass; otherwise the subject's
// token-granted permissions are evaluated through the RBAC matcher so
// wildcard grants ("project:*") work the same as exact ones.
func HasInstancePermission(ctx Context, req PermissionRequest) bool {
	if ctx.IsSystemToken || IsIAMMember(ctx) {
		return true
	}
	if len(ctx.Subject.Permissions) == 0 {
		return false
	}

	enforcer, err := newPermissionEnforcer(ctx.Subject.Permissions)
	if err != nil {
		return false
	}
	allowed, err := enforcer.Enforce(permissionSubject, req.Resource, req.Action)
	return err == nil && allowed
}

func newPermissionEnforcer(permissions []string) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(permissionModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, perm := range permissions {
		resource, action, ok := splitPermission(perm)
		if !ok {
			continue
		}
		if _, err := enforcer.AddPolicy(permissionSubject, resource, action); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}

func splitPermission(perm string) (resource, action string, ok bool) {
	parts := strings.SplitN(perm, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// CheckInstanceFeature reports whether feature name is enabled for ctx's
// instance. Absent metadata defaults to true (backward compatible); when
// metadata is present, the feature must be set to true under "features".
// System tokens always pass.
func CheckInstanceFeature(ctx Context, name string) bool {
	if ctx.IsSystemToken {
		return true
	}
	if ctx.InstanceMetadata == nil {
		return true
	}
	features, ok := ctx.InstanceMetadata["features"].(map[string]interface{})
	if !ok {
		return false
	}
	value, present := features[name]
	if !present {
		return false
	}
	enabled, _ := value.(bool)
	return enabled
}

// RequireInstanceFeature returns a FeatureDisabledError when the feature is off.
func RequireInstanceFeature(ctx Context, name string) error {
	if !CheckInstanceFeature(ctx, name) {
		return domain.NewFeatureDisabledError(name)
	}
	return nil
}

// CheckInstanceQuota reports whether currentUsage is within the named
// quota. An undefined quota or a system token always passes.
func CheckInstanceQuota(ctx Context, name string, currentUsage int64) bool {
	if ctx.IsSystemToken {
		return true
	}
	if ctx.InstanceMetadata == nil {
		return true
	}
	quotas, ok := ctx.InstanceMetadata["quotas"].(map[string]interface{})
	if !ok {
		return true
	}
	raw, present := quotas[name]
	if !present {
		return true
	}
	limit, ok := toInt64(raw)
	if !ok {
		return true
	}
	return currentUsage < limit
}

// RequireInstanceQuota returns a QuotaExceededError when currentUsage meets
// or exceeds the named quota's limit.
func RequireInstanceQuota(ctx Context, name string, currentUsage int64) error {
	quotas, _ := ctx.InstanceMetadata["quotas"].(map[string]interface{})
	limit, _ := toInt64(quotas[name])
	if !CheckInstanceQuota(ctx, name, currentUsage) {
		return domain.NewQuotaExceededError(name, limit)
	}
	return nil
}

// RequireInstancePermission returns a PermissionDeniedError when ctx's
// subject is not authorized for req.
func RequireInstancePermission(ctx Context, req PermissionRequest) error {
	if !HasInstancePermission(ctx, req) {
		return domain.NewPermissionDeniedError(ctx.Subject.UserID, req.Resource+":"+req.Action)
	}
	return nil
}

// RequireIAMMember returns a PermissionDeniedError when ctx's subject is
// not an IAM member.
func RequireIAMMember(ctx Context) error {
	if !IsIAMMember(ctx) {
		return domain.NewPermissionDeniedError(ctx.Subject.UserID, "iam:member")
	}
	return nil
}

func toInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
