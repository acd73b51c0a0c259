package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"dementiaui/internal/config"
	"dementiaui/internal/dto"
	"dementiaui/internal/logger"
	"dementiaui/internal/model"
	"dementiaui/internal/repository/sqlite"
	"dementiaui/internal/service/backend"
)

// ========================================
// Test Doubles
// ========================================

type fakeBackend struct {
	result *model.PredictionResult
	status int
	err    error
	calls  int
}

func (b *fakeBackend) Predict(ctx context.Context, req *model.PredictionRequest) (*model.PredictionResult, int, error) {
	b.calls++
	return b.result, b.status, b.err
}

type recorder struct {
	mu     sync.Mutex
	events []dto.SubmissionEvent
}

func (r *recorder) Publish(event dto.SubmissionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) statuses() []model.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Status
	for _, e := range r.events {
		out = append(out, e.Status)
	}
	return out
}

func setupTestPredictor(t *testing.T, b Backend) (*Predictor, *recorder, *sqlite.SubmissionRepository) {
	t.Helper()

	log, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(log.Close)

	db, err := sqlite.New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewSubmissionRepository(db)
	rec := &recorder{}
	return NewPredictor(b, repo, log, rec), rec, repo
}

func upload() *model.PredictionRequest {
	return &model.PredictionRequest{Filename: "patient.zip", Content: []byte("PK")}
}

// ========================================
// Lifecycle Tests
// ========================================

func TestPredictor_Submit_Success(t *testing.T) {
	b := &fakeBackend{
		status: 200,
		result: &model.PredictionResult{
			Prediction:      "Alzheimer",
			Confidence:      0.87,
			Probabilities:   map[string]float64{"Normal": 0.05, "Alzheimer": 0.87, "VaD": 0.08},
			PatientMetadata: json.RawMessage(`{"PatientID":"P001"}`),
			PreviewBase64:   "iVBORw0KGgo=",
		},
	}
	p, rec, repo := setupTestPredictor(t, b)
	p.ShareDetails(true)

	outcome := p.Submit(context.Background(), upload())

	if outcome.Status != model.StatusSuccess {
		t.Fatalf("Expected success, got %s (%s)", outcome.Status, outcome.Message)
	}
	if outcome.Message != "" {
		t.Errorf("Expected no message, got %q", outcome.Message)
	}
	if outcome.Report.ConfidencePercent != "87.00%" {
		t.Errorf("Unexpected confidence %s", outcome.Report.ConfidencePercent)
	}

	statuses := rec.statuses()
	if len(statuses) != 2 || statuses[0] != model.StatusSubmitted || statuses[1] != model.StatusSuccess {
		t.Errorf("Unexpected events %v", statuses)
	}
	if rec.events[1].Confidence != "87.00%" || rec.events[1].Label != "Alzheimer" {
		t.Errorf("Unexpected success event %+v", rec.events[1])
	}

	stored, err := repo.GetByID(outcome.ID)
	if err != nil || stored == nil {
		t.Fatalf("Expected stored submission, got %v, %v", stored, err)
	}
	if stored.Label != "Alzheimer" || stored.Filename != "patient.zip" || stored.HTTPStatus != 200 || stored.FileSize != 2 {
		t.Errorf("Unexpected stored submission %+v", stored)
	}
}

func TestPredictor_Submit_WithholdsDetailsByDefault(t *testing.T) {
	b := &fakeBackend{
		status: 200,
		result: &model.PredictionResult{Prediction: "Alzheimer", Confidence: 0.87},
	}
	p, rec, repo := setupTestPredictor(t, b)

	outcome := p.Submit(context.Background(), upload())

	if outcome.Report == nil || outcome.Report.Label != "Alzheimer" {
		t.Fatalf("Expected the requester to get the full report, got %+v", outcome)
	}

	for _, event := range rec.events {
		if event.Filename != "" || event.Label != "" || event.Confidence != "" {
			t.Errorf("Expected event without details, got %+v", event)
		}
	}

	stored, err := repo.GetByID(outcome.ID)
	if err != nil || stored == nil {
		t.Fatalf("Expected stored submission, got %v, %v", stored, err)
	}
	if stored.Filename != "" || stored.Label != "" || stored.Confidence != 0 {
		t.Errorf("Expected stored submission without details, got %+v", stored)
	}
	if stored.Status != model.StatusSuccess || stored.FileSize != 2 {
		t.Errorf("Expected status and size to be kept, got %+v", stored)
	}

	logged, err := os.ReadFile(filepath.Join(p.logger.Dir(), logger.InfoFile))
	if err != nil {
		t.Fatalf("Failed to read info log: %v", err)
	}
	if strings.Contains(string(logged), "Alzheimer") || strings.Contains(string(logged), "patient.zip") {
		t.Errorf("Expected info log without details, got %q", logged)
	}
	if !strings.Contains(string(logged), outcome.ID) {
		t.Errorf("Expected info log to mention %s", outcome.ID)
	}
}

func TestPredictor_Submit_NoFile(t *testing.T) {
	b := &fakeBackend{}
	p, rec, repo := setupTestPredictor(t, b)

	for _, req := range []*model.PredictionRequest{nil, {}} {
		outcome := p.Submit(context.Background(), req)

		if outcome.Status != model.StatusInputError {
			t.Errorf("Expected input error, got %s", outcome.Status)
		}
		if !strings.Contains(outcome.Message, "Please upload a patient ZIP file") {
			t.Errorf("Unexpected message %q", outcome.Message)
		}
		if outcome.Report != nil {
			t.Error("Expected no report")
		}
	}

	if b.calls != 0 {
		t.Errorf("Expected no backend calls, got %d", b.calls)
	}
	if got := len(rec.statuses()); got != 4 {
		t.Errorf("Expected 4 events, got %d", got)
	}
	counts, _ := repo.CountByStatus()
	if counts[model.StatusInputError] != 2 {
		t.Errorf("Expected 2 recorded input errors, got %v", counts)
	}
}

func TestPredictor_Submit_NotZip(t *testing.T) {
	b := &fakeBackend{}
	p, _, _ := setupTestPredictor(t, b)

	outcome := p.Submit(context.Background(), &model.PredictionRequest{Filename: "scan.dcm", Content: []byte("x")})

	if outcome.Status != model.StatusInputError || !strings.Contains(outcome.Message, ".zip") {
		t.Errorf("Unexpected outcome %+v", outcome)
	}
	if b.calls != 0 {
		t.Errorf("Expected no backend calls, got %d", b.calls)
	}
}

func TestPredictor_Submit_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected model.Status
		message  string
	}{
		{
			name:     "backend error",
			err:      &backend.BackendError{StatusCode: 500, Body: "model load failed"},
			status:   500,
			expected: model.StatusBackendError,
			message:  "Backend Error: model load failed",
		},
		{
			name:     "transport error",
			err:      &backend.TransportError{Err: errors.New("connection refused")},
			expected: model.StatusTransportError,
			message:  "Failed to connect to backend: connection refused",
		},
		{
			name:     "staging error",
			err:      fmt.Errorf("stage upload: %w", errors.New("disk full")),
			expected: model.StatusTransportError,
			message:  "Failed to connect to backend: stage upload: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, rec, repo := setupTestPredictor(t, &fakeBackend{err: tt.err, status: tt.status})

			outcome := p.Submit(context.Background(), upload())

			if outcome.Status != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, outcome.Status)
			}
			if outcome.Message != tt.message {
				t.Errorf("Expected %q, got %q", tt.message, outcome.Message)
			}
			if outcome.Report != nil {
				t.Error("Expected no report on error")
			}
			if statuses := rec.statuses(); statuses[len(statuses)-1] != tt.expected {
				t.Errorf("Expected last event %s, got %v", tt.expected, statuses)
			}

			stored, _ := repo.GetByID(outcome.ID)
			if stored == nil || stored.Message != tt.message || stored.HTTPStatus != tt.status {
				t.Errorf("Unexpected stored submission %+v", stored)
			}
		})
	}
}

func TestPredictor_Submit_WithoutHistory(t *testing.T) {
	log, err := logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer log.Close()

	p := NewPredictor(&fakeBackend{status: 200, result: &model.PredictionResult{Prediction: "Normal"}}, nil, log)

	if outcome := p.Submit(context.Background(), upload()); outcome.Status != model.StatusSuccess {
		t.Errorf("Expected success without history, got %s", outcome.Status)
	}
}

func TestPredictor_Submit_IndependentOutcomes(t *testing.T) {
	b := &fakeBackend{err: &backend.BackendError{StatusCode: 500, Body: "model load failed"}, status: 500}
	p, _, _ := setupTestPredictor(t, b)

	first := p.Submit(context.Background(), upload())

	b.err = nil
	b.status = 200
	b.result = &model.PredictionResult{Prediction: "Normal", Confidence: 0.9}
	second := p.Submit(context.Background(), upload())

	if first.ID == second.ID {
		t.Error("Expected distinct submission IDs")
	}
	if second.Status != model.StatusSuccess || second.Message != "" {
		t.Errorf("Expected clean success after error, got %+v", second)
	}
}
