// Package correlation carries a request correlation id from the inbound
// storefront request to every call made to the server API.
package correlation

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const Header = "X-Correlation-Id"

type ctxKey struct{}

// Middleware reuses an inbound X-Correlation-Id or mints one, echoes it on
// the response and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := r.Header.Get(Header)
		if cid == "" {
			cid = uuid.NewString()
		}
		w.Header().Set(Header, cid)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), cid)))
	})
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) string {
	if s, ok := ctx.Value(ctxKey{}).(string); ok {
		return s
	}
	return ""
}

// Ensure returns ctx unchanged if it already carries an id, otherwise a
// child context with a fresh one. CLI commands use it to tag their calls.
func Ensure(ctx context.Context) context.Context {
	if FromContext(ctx) != "" {
		return ctx
	}
	return WithID(ctx, uuid.NewString())
}
