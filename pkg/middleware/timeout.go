package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds every request context with a deadline so a storage stall
// cannot block a request indefinitely. Mongo and Redis calls downstream
// all take the request context and abort when it expires.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
