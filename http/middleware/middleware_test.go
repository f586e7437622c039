package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"Open when no token configured", "", "", http.StatusTeapot},
		{"Missing header", "s3cret", "", http.StatusUnauthorized},
		{"Wrong scheme", "s3cret", "Basic s3cret", http.StatusUnauthorized},
		{"Wrong token", "s3cret", "Bearer nope", http.StatusUnauthorized},
		{"Valid token", "s3cret", "Bearer s3cret", http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			RequireAdmin(tt.token)(ok)(w, r)
			require.Equal(t, tt.want, w.Code)
		})
	}
}

func TestEnableCORSPreflight(t *testing.T) {
	req := require.New(t)
	w := httptest.NewRecorder()
	EnableCORS(ok)(w, httptest.NewRequest(http.MethodOptions, "/api/lead", nil))
	req.Equal(http.StatusNoContent, w.Code)
	req.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	EnableCORS(ok)(w, httptest.NewRequest(http.MethodPost, "/api/lead", nil))
	req.Equal(http.StatusTeapot, w.Code)
}

func TestLogRequestsPassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	LogRequests(http.HandlerFunc(ok)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, w.Code)
}
