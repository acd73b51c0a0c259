package handler

import (
	"net/http"
	"strconv"

	"dementiaui/internal/dto"
	"dementiaui/internal/logger"
	"dementiaui/internal/model"
	"dementiaui/internal/repository"
)

// GetHistoryHandler returns a filtered, paginated list of past submissions.
func GetHistoryHandler(history repository.SubmissionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if history == nil {
			http.Error(w, "History is disabled", http.StatusNotFound)
			return
		}

		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &model.SubmissionFilter{
			Status: model.Status(q.Get("status")),
			Limit:  limit,
			Offset: (page - 1) * limit,
		}

		submissions, err := history.GetAll(filter)
		if err != nil {
			logger.Error("Error querying history: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := history.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting submissions: %v", err)
			totalCount = len(submissions)
		}

		counts, err := history.CountByStatus()
		if err != nil {
			logger.Error("Error counting statuses: %v", err)
			counts = map[model.Status]int{}
		}

		if submissions == nil {
			submissions = []model.Submission{}
		}

		respondJSON(w, logger, dto.HistoryData{
			Submissions: submissions,
			Counts:      counts,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		}, http.StatusOK)
	}
}

// GetSubmissionHandler returns one recorded submission by ID.
func GetSubmissionHandler(history repository.SubmissionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if history == nil {
			http.Error(w, "History is disabled", http.StatusNotFound)
			return
		}

		id := r.PathValue("id")
		submission, err := history.GetByID(id)
		if err != nil {
			logger.Error("Error fetching submission %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if submission == nil {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}

		respondJSON(w, logger, submission, http.StatusOK)
	}
}

// ClearHistoryHandler deletes every recorded submission.
func ClearHistoryHandler(history repository.SubmissionRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if history == nil {
			http.Error(w, "History is disabled", http.StatusNotFound)
			return
		}

		if err := history.DeleteAll(); err != nil {
			logger.Error("Error clearing history: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logger.Info("Submission history cleared")
		w.WriteHeader(http.StatusNoContent)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
