package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"dementiaui/internal/config"
	"dementiaui/internal/logger"
	"dementiaui/internal/model"
	"dementiaui/internal/service"
	"dementiaui/internal/view"
)

// IndexHandler renders the idle dashboard.
func IndexHandler(cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		renderPage(w, logger, http.StatusOK, newPageData(cfg))
	}
}

// PredictHandler handles the upload form: one submission, one rendered page.
// The page holds either the full report or a single error banner.
func PredictHandler(predictor *service.Predictor, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		data := newPageData(cfg)

		req, err := readUpload(w, r, cfg.MaxUploadSize)
		if err != nil {
			logger.Warning("Rejected upload: %v", err)
			data.Error = uploadErrorMessage(err, cfg.MaxUploadSize)
			renderPage(w, logger, http.StatusBadRequest, data)
			return
		}

		outcome := predictor.Submit(r.Context(), req)
		data.Error = outcome.Message
		data.Report = outcome.Report
		renderPage(w, logger, statusFor(outcome.Status), data)
	}
}

// APIPredictHandler is the JSON counterpart of PredictHandler.
func APIPredictHandler(predictor *service.Predictor, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		req, err := readUpload(w, r, cfg.MaxUploadSize)
		if err != nil {
			logger.Warning("Rejected upload: %v", err)
			respondJSON(w, logger, map[string]string{
				"error":   string(model.StatusInputError),
				"message": uploadErrorMessage(err, cfg.MaxUploadSize),
			}, http.StatusBadRequest)
			return
		}

		outcome := predictor.Submit(r.Context(), req)
		if outcome.Report == nil {
			respondJSON(w, logger, map[string]string{
				"id":      outcome.ID,
				"error":   string(outcome.Status),
				"message": outcome.Message,
			}, statusFor(outcome.Status))
			return
		}

		respondJSON(w, logger, outcome.Report, http.StatusOK)
	}
}

var errUploadTooLarge = errors.New("upload too large")

// readUpload extracts the "file" form field. A missing file yields a nil
// request so that the predictor reports it as an input error.
func readUpload(w http.ResponseWriter, r *http.Request, maxSize int64) (*model.PredictionRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errUploadTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &model.PredictionRequest{
		Filename: header.Filename,
		Content:  content,
	}, nil
}

// uploadErrorMessage is the banner text for a request that could not be read.
func uploadErrorMessage(err error, maxSize int64) string {
	if errors.Is(err, errUploadTooLarge) {
		return fmt.Sprintf("Upload exceeds the %dMB limit.", maxSize>>20)
	}
	return "Failed to read upload. Please try again."
}

func newPageData(cfg *config.Config) *view.PageData {
	return &view.PageData{
		MaxUploadMB: cfg.MaxUploadSize >> 20,
		AuthEnabled: cfg.Password != "",
	}
}

func renderPage(w http.ResponseWriter, logger *logger.Logger, status int, data *view.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := view.RenderIndex(w, data); err != nil {
		logger.Error("Error rendering page: %v", err)
	}
}

func statusFor(status model.Status) int {
	switch status {
	case model.StatusSuccess:
		return http.StatusOK
	case model.StatusInputError:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func respondJSON(w http.ResponseWriter, logger *logger.Logger, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
