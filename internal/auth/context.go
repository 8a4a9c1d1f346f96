package auth

import "context"

type contextKey struct{}

// WithActor returns a context carrying the authenticated actor.
func WithActor(ctx context.Context, actor *ActorInfo) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// ActorFromContext returns the authenticated actor, if any.
func ActorFromContext(ctx context.Context) (*ActorInfo, bool) {
	actor, ok := ctx.Value(contextKey{}).(*ActorInfo)
	return actor, ok
}
