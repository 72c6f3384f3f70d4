package middleware

import (
	"net/http"
	"slices"
)

type headerPair struct {
	name, value string
}

// Review data and score reports are per-user, so nothing may be cached or framed.
var hardeningHeaders = []headerPair{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "no-referrer"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Cache-Control", "no-store"},
}

// SecureHeaders sets the hardening headers on every response. HSTS is only
// sent in production.
func SecureHeaders(isProd bool) func(http.Handler) http.Handler {
	set := hardeningHeaders
	if isProd {
		set = append(slices.Clip(hardeningHeaders), headerPair{"Strict-Transport-Security", "max-age=63072000; includeSubDomains"})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			for _, h := range set {
				headers.Set(h.name, h.value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
