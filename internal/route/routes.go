package route

import (
	"net/http"

	"dementiaui/internal/config"
	"dementiaui/internal/handler"
	"dementiaui/internal/logger"
	"dementiaui/internal/middleware"
	"dementiaui/internal/repository"
	"dementiaui/internal/service"
	"dementiaui/internal/service/websocket"
)

// SetupRoutes registers the dashboard, API, log and auth endpoints and wraps
// the mux with the authentication middleware. history may be nil.
func SetupRoutes(predictor *service.Predictor, hub *websocket.HubService, history repository.SubmissionRepository,
	cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Dashboard
	mux.HandleFunc("/", handler.IndexHandler(cfg, log))
	mux.HandleFunc("/predict", handler.PredictHandler(predictor, cfg, log))

	// API endpoints
	mux.HandleFunc("/api/predict", handler.APIPredictHandler(predictor, cfg, log))
	mux.HandleFunc("/api/events", handler.EventsWebsocketHandler(hub, log))
	mux.HandleFunc("/api/history", handler.GetHistoryHandler(history, log))
	mux.HandleFunc("GET /api/history/{id}", handler.GetSubmissionHandler(history, log))
	mux.HandleFunc("POST /api/history/clear", handler.ClearHistoryHandler(history, log))
	mux.HandleFunc("/health", handler.HealthHandler(cfg, log))

	// Log endpoints
	for _, name := range []string{"info", "warning", "error"} {
		file := name + ".log"
		mux.HandleFunc("/logs/"+name, handler.ShowLogsHandler(log, file))
		mux.HandleFunc("/logs/"+name+"/clear", handler.ClearLogsHandler(log, file))
	}

	// Auth endpoints
	mux.HandleFunc("/login", handler.LoginPageHandler(log))
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, log))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	return middleware.AuthMiddleware(cfg, mux)
}
