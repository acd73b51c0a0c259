package handler

import (
	"net/http"

	"dementiaui/internal/config"
	"dementiaui/internal/logger"
	"dementiaui/internal/middleware"
	"dementiaui/internal/view"
)

// LoginPageHandler renders the password form.
func LoginPageHandler(logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderLogin(w, logger, http.StatusOK, "")
	}
}

// LoginHandler handles POST /auth/login by validating password and issuing an auth cookie.
func LoginHandler(cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if !middleware.CheckPassword(cfg, r.FormValue("password")) {
			logger.Warning("Failed login attempt from %s", r.RemoteAddr)
			renderLogin(w, logger, http.StatusUnauthorized, "Invalid password")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     middleware.CookieName,
			Value:    middleware.SessionToken(cfg),
			Path:     "/",
			MaxAge:   2592000, // 30 days
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// LogoutHandler clears the authentication cookie and redirects to the login page.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:   middleware.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func renderLogin(w http.ResponseWriter, logger *logger.Logger, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.RenderLogin(w, &view.LoginData{Error: message}); err != nil {
		logger.Error("Error rendering login page: %v", err)
	}
}
