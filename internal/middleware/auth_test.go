package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dementiaui/internal/config"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestAuthMiddleware_NoPasswordPassesThrough(t *testing.T) {
	handler := AuthMiddleware(&config.Config{}, ok)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_WithPassword(t *testing.T) {
	cfg := &config.Config{Password: "secret"}
	handler := AuthMiddleware(cfg, ok)

	tests := []struct {
		name     string
		path     string
		cookie   string
		expected int
	}{
		{"login page open", "/login", "", http.StatusOK},
		{"login post open", "/auth/login", "", http.StatusOK},
		{"health open", "/health", "", http.StatusOK},
		{"page redirects", "/", "", http.StatusSeeOther},
		{"api unauthorized", "/api/history", "", http.StatusUnauthorized},
		{"logs unauthorized", "/logs/info", "", http.StatusUnauthorized},
		{"forged cookie", "/", "true", http.StatusSeeOther},
		{"valid session", "/", SessionToken(cfg), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestSessionToken_ChangesWithPassword(t *testing.T) {
	a := SessionToken(&config.Config{Password: "one"})
	b := SessionToken(&config.Config{Password: "two"})

	if a == b {
		t.Error("Expected different tokens for different passwords")
	}
}

func TestCheckPassword(t *testing.T) {
	cfg := &config.Config{Password: "secret"}

	if !CheckPassword(cfg, "secret") {
		t.Error("Expected correct password to pass")
	}
	if CheckPassword(cfg, "Secret") || CheckPassword(cfg, "") {
		t.Error("Expected wrong password to fail")
	}
}
