package auth

import (
	"context"

	"github.com/straye-as/pipeline-api/internal/domain"
)

type contextKey string

const actorContextKey contextKey = "actor"

// WithActor adds the acting user to the context
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey, actor)
}

// ActorFromContext extracts the acting user from the context
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(domain.Actor)
	return actor, ok
}
