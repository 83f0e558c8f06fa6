package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity is what the external identity provider asserted about the
// request. Token verification itself happens at that boundary; this
// service only carries the assertion through the request context and
// uses it to tag sessions and messages.
type Identity struct {
	UserID string
	Token  string
}

type ctxKey struct{}

// Middleware lifts a bearer token (and the user id header the frontend
// sends alongside it) into the request context. Requests without a
// token pass through anonymous; enforcement is the call site's choice.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
			id := Identity{
				Token:  strings.TrimSpace(token),
				UserID: strings.TrimSpace(r.Header.Get("X-User-Id")),
			}
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity attaches an asserted identity to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity attached by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
