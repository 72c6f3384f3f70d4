package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecureHeaders(t *testing.T) {
	send := func(isProd bool) http.Header {
		rec := httptest.NewRecorder()
		SecureHeaders(isProd)(http.HandlerFunc(noContent)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Header()
	}

	dev := send(false)
	require.Equal(t, "nosniff", dev.Get("X-Content-Type-Options"))
	require.Equal(t, "no-store", dev.Get("Cache-Control"))
	require.Empty(t, dev.Get("Strict-Transport-Security"))

	prod := send(true)
	require.Contains(t, prod.Get("Strict-Transport-Security"), "max-age=")
	require.Len(t, hardeningHeaders, 6, "production must not grow the shared list")
}
