package authz

// permissionModel is the casbin RBAC model backing HasInstancePermission.
// Policies are evaluated against a single synthetic "subject" principal
// carrying one policy row per entry in the caller's token permissions list;
// a "*" action (as in "project:*") authorizes any action on that resource,
// a "*" resource (as in "*:read") matches every resource, and other
// resources are compared with keyMatch2. A permission without a ":" is
// ignored, so "*" alone grants nothing.
const permissionModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || keyMatch2(r.obj, p.obj)) && (p.act == "*" || r.act == p.act)
`

const permissionSubject = "subject"
