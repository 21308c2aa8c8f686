package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func TestRequireAuthAPIKey(t *testing.T) {
	key := "gb_" + strings.Repeat("ab", 24)
	m := NewMiddleware(nil, []string{key}, nil)

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"configured key", key, http.StatusOK},
		{"unknown key", "gb_" + strings.Repeat("ff", 24), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/stats/gameplay/summary", nil)
			req.Header.Set("X-API-Key", tt.key)
			rec := httptest.NewRecorder()

			m.RequireAuth(okHandler)(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequireAuthMissingCredentials(t *testing.T) {
	m := NewMiddleware(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/gameplay/summary", nil)
	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthMalformedBearer(t *testing.T) {
	m := NewMiddleware(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats/gameplay/summary", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRoleAPIKeyBypass(t *testing.T) {
	// API-key callers carry no user and pass role checks
	key := "gb_" + strings.Repeat("cd", 24)
	m := NewMiddleware(nil, []string{key}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/stats/gameplay/cache/clear", nil)
	req.Header.Set("X-API-Key", key)
	rec := httptest.NewRecorder()

	m.RequireRole("admin", okHandler)(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for API-key caller", rec.Code)
	}
}
