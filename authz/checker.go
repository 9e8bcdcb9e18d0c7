package authz

import "context"

// Checker answers whether subject may perform action on entity.
//
// subject is a typed identifier such as "user:alice" or "group:eng#member";
// action is a caller-level verb such as "read" or "delete"; entity is the
// bare resource name.
type Checker interface {
	HasPermission(ctx context.Context, subject, action, entity string) (bool, error)
}

// CheckerFunc is an adapter to use ordinary functions as Checker.
type CheckerFunc func(ctx context.Context, subject, action, entity string) (bool, error)

// HasPermission implements Checker.
func (f CheckerFunc) HasPermission(ctx context.Context, subject, action, entity string) (bool, error) {
	return f(ctx, subject, action, entity)
}

// MapChecker is a static in-memory Checker backed by subject → patterns of
// the form "entity:action". It is meant for development and tests.
type MapChecker struct {
	permissions map[string][]string
}

var _ Checker = (*MapChecker)(nil)

// NewMapChecker creates a Checker from a static map.
//
//	checker := authz.NewMapChecker(map[string][]string{
//	    "user:root":  {"*:*"},
//	    "user:alice": {"widget-service:*", "catalog-*:read"},
//	})
func NewMapChecker(permissions map[string][]string) *MapChecker {
	return &MapChecker{permissions: permissions}
}

// HasPermission implements Checker. Actions are compared case-insensitively.
func (c *MapChecker) HasPermission(_ context.Context, subject, action, entity string) (bool, error) {
	patterns, ok := c.permissions[subject]
	if !ok {
		return false, nil
	}
	return MatchAny(patterns, Permission(entity, action)), nil
}
