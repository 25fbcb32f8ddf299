package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestCSRF_GETSetsCookie(t *testing.T) {
	handler := CSRFProtection(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "csrf_token", cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
}

func TestCSRF_PostWithoutTokenRejected(t *testing.T) {
	handler := CSRFProtection(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/upload", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_PostWithMatchingToken(t *testing.T) {
	handler := CSRFProtection(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "tok123"})
	req.Header.Set("X-CSRF-Token", "tok123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRF_PostWithMismatchedToken(t *testing.T) {
	handler := CSRFProtection(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	req.AddCookie(&http.Cookie{Name: "csrf_token", Value: "tok123"})
	req.Header.Set("X-CSRF-Token", "other")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRF_ExemptPaths(t *testing.T) {
	handler := CSRFProtection(okHandler())

	for _, path := range []string{"/ws/metrics/abc", "/health"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, "path %s should be exempt", path)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS("http://localhost:5173")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	// Unknown origins get no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	// Preflight is answered directly.
	req = httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
