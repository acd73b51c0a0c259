package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"dementiaui/internal/config"
)

const CookieName = "session"

// SessionToken derives the cookie value from the configured password, so
// changing the password invalidates existing sessions.
func SessionToken(cfg *config.Config) string {
	sum := sha256.Sum256([]byte("dementia-ui:" + cfg.Password))
	return hex.EncodeToString(sum[:])
}

func CheckPassword(cfg *config.Config, password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) == 1
}

// AuthMiddleware requires a valid session cookie when a password is configured.
func AuthMiddleware(cfg *config.Config, next http.Handler) http.Handler {
	if cfg.Password == "" {
		return next
	}
	token := SessionToken(cfg)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" ||
			r.URL.Path == "/auth/login" ||
			r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(CookieName)
		if err != nil || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(token)) != 1 {
			if strings.HasPrefix(r.URL.Path, "/api/") ||
				strings.HasPrefix(r.URL.Path, "/logs/") ||
				r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
