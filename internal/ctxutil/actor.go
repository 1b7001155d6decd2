// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the committer identity.
// Exported so it can be used consistently across packages.
type ActorKey struct{}

// ProjectKey is the context key for the project scope.
type ProjectKey struct{}

// WithActorID returns a context with the committer identity embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the committer identity from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}

// WithProjectID returns a context with the project scope embedded.
func WithProjectID(ctx context.Context, projectID string) context.Context {
	return context.WithValue(ctx, ProjectKey{}, projectID)
}

// ProjectFromContext returns the project scope from context, or empty string if not set.
func ProjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ProjectKey{}); v != nil {
		return v.(string)
	}
	return ""
}
