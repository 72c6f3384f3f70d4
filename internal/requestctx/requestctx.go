// Package requestctx carries per-request metadata from the HTTP edge down to
// handlers and the audit trail.
package requestctx

import (
	"context"

	"perfreview/internal/domain/review"
)

type ctxKey int

const (
	metaKey ctxKey = iota
	actorKey
)

// Meta identifies one inbound request.
type Meta struct {
	RequestID string
	ClientIP  string
}

func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

func MetaFrom(ctx context.Context) Meta {
	meta, _ := ctx.Value(metaKey).(Meta)
	return meta
}

func RequestID(ctx context.Context) string {
	return MetaFrom(ctx).RequestID
}

func ClientIP(ctx context.Context) string {
	return MetaFrom(ctx).ClientIP
}

// WithActor records the authenticated user acting on the request.
func WithActor(ctx context.Context, userID review.UserID) context.Context {
	return context.WithValue(ctx, actorKey, userID)
}

// Actor reports the authenticated user. A zero id counts as anonymous.
func Actor(ctx context.Context) (review.UserID, bool) {
	userID, ok := ctx.Value(actorKey).(review.UserID)
	if !ok || userID.IsZero() {
		return review.UserID{}, false
	}
	return userID, true
}
