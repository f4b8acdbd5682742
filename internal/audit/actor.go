package audit

import "context"

type contextKey struct{}

var actorKey contextKey

// WithActor returns a context carrying the identifier of the user
// responsible for mutations performed under it. The auth middleware sets
// this per request; system-initiated work leaves it unset.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorFrom returns the current actor identifier, if any.
func ActorFrom(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
