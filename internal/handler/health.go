package handler

import (
	"net/http"

	"dementiaui/internal/config"
	"dementiaui/internal/logger"
)

func HealthHandler(cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, logger, map[string]string{
			"status":  "ok",
			"backend": cfg.BackendURL,
		}, http.StatusOK)
	}
}
