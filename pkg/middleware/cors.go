package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSOptions configures cross-origin access to the API.
type CORSOptions struct {
	AllowedOrigins []string // "*" echoes the request origin
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // preflight cache, seconds
}

// DefaultCORSOptions suits a browser storefront talking to the API with
// the auth cookie. The wildcard echoes the caller's origin because
// credentialed requests reject a literal "*".
func DefaultCORSOptions() CORSOptions {
	return CORSOptions{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}
}

// CORS adds cross-origin headers and short-circuits preflight requests.
func CORS(opts CORSOptions) func(http.Handler) http.Handler {
	methods := strings.Join(opts.AllowedMethods, ", ")
	headers := strings.Join(opts.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(opts.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if allow := matchOrigin(opts.AllowedOrigins, origin); allow != "" {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", allow)
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", headers)
					h.Set("Access-Control-Allow-Credentials", "true")
					h.Add("Vary", "Origin")
					if opts.MaxAge > 0 {
						h.Set("Access-Control-Max-Age", maxAge)
					}
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// matchOrigin returns the value for Allow-Origin, or "" when the origin
// is not allowed. A "*" entry echoes the origin so cookies keep working.
func matchOrigin(allowed []string, origin string) string {
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
