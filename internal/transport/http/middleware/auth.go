package middleware

import (
	"context"
	"net/http"
	"strings"

	"perfreview/internal/domain/auth"
	"perfreview/internal/domain/review"
	"perfreview/internal/requestctx"
	"perfreview/internal/transport/http/api"
)

// UserContext is the authenticated actor for a request.
type UserContext struct {
	UserID review.UserID
}

// Auth attaches the bearer token's actor to the context. Requests without a
// valid token pass through anonymous; RequireUser rejects them.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := review.ParseUserID(claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), UserContext{UserID: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthenticated", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user UserContext) context.Context {
	return requestctx.WithActor(ctx, user.UserID)
}

func GetUser(ctx context.Context) (UserContext, bool) {
	userID, ok := requestctx.Actor(ctx)
	return UserContext{UserID: userID}, ok
}
