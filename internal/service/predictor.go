package service

import (
	"context"
	"errors"
	"time"

	"dementiaui/internal/dto"
	"dementiaui/internal/logger"
	"dementiaui/internal/model"
	"dementiaui/internal/repository"
	"dementiaui/internal/service/backend"

	"github.com/google/uuid"
)

// Backend is the prediction service reached over HTTP.
type Backend interface {
	Predict(ctx context.Context, req *model.PredictionRequest) (*model.PredictionResult, int, error)
}

// Notifier receives every lifecycle event of a submission.
type Notifier interface {
	Publish(event dto.SubmissionEvent)
}

// Outcome is the result of one submission. Exactly one of Report and Message is set.
type Outcome struct {
	ID         string
	Status     model.Status
	Report     *dto.Report
	Message    string
	HTTPStatus int
}

// Predictor runs submissions one request at a time. It keeps no state
// between submissions; history and notifiers only observe outcomes.
type Predictor struct {
	backend   Backend
	history   repository.SubmissionRepository
	notifiers []Notifier
	logger    *logger.Logger
	now       func() time.Time

	shareDetails bool
}

// NewPredictor wires the backend with optional observers. history may be nil.
func NewPredictor(backend Backend, history repository.SubmissionRepository, logger *logger.Logger, notifiers ...Notifier) *Predictor {
	return &Predictor{
		backend:   backend,
		history:   history,
		notifiers: notifiers,
		logger:    logger,
		now:       time.Now,
	}
}

// ShareDetails controls whether filenames and diagnoses reach the logs,
// events and history. Off by default; enable it only when the instance is
// password protected.
func (p *Predictor) ShareDetails(enabled bool) {
	p.shareDetails = enabled
}

// Submit validates the upload, forwards it and classifies the result.
func (p *Predictor) Submit(ctx context.Context, req *model.PredictionRequest) *Outcome {
	started := p.now()
	submission := &model.Submission{
		ID:        uuid.NewString(),
		Status:    model.StatusSubmitted,
		Timestamp: started,
	}
	if req != nil {
		submission.Filename = req.Filename
		submission.FileSize = int64(len(req.Content))
	}

	p.notify(submission)

	outcome := &Outcome{ID: submission.ID}
	if err := backend.ValidateUpload(req); err != nil {
		outcome.Status = model.StatusInputError
		outcome.Message = inputMessage(err)
		p.finish(submission, outcome, started)
		return outcome
	}

	result, status, err := p.backend.Predict(ctx, req)
	outcome.HTTPStatus = status

	var backendErr *backend.BackendError
	var transportErr *backend.TransportError
	switch {
	case err == nil:
		outcome.Status = model.StatusSuccess
		outcome.Report = dto.NewReport(result)
	case backend.IsInputError(err):
		outcome.Status = model.StatusInputError
		outcome.Message = inputMessage(err)
	case errors.As(err, &backendErr):
		outcome.Status = model.StatusBackendError
		outcome.Message = "Backend Error: " + backendErr.Body
	case errors.As(err, &transportErr):
		outcome.Status = model.StatusTransportError
		outcome.Message = "Failed to connect to backend: " + transportErr.Error()
	default:
		// staging failures happen before anything is sent
		outcome.Status = model.StatusTransportError
		outcome.Message = "Failed to connect to backend: " + err.Error()
	}

	p.finish(submission, outcome, started)
	return outcome
}

func (p *Predictor) finish(submission *model.Submission, outcome *Outcome, started time.Time) {
	submission.Status = outcome.Status
	submission.Message = outcome.Message
	submission.HTTPStatus = outcome.HTTPStatus
	submission.Duration = p.now().Sub(started)
	if outcome.Report != nil {
		submission.Label = outcome.Report.Label
		submission.Confidence = outcome.Report.Confidence
	}

	if outcome.Status == model.StatusSuccess {
		if p.shareDetails {
			p.logger.Info("Submission %s (%s): %s %s in %v", submission.ID, submission.Filename,
				submission.Label, outcome.Report.ConfidencePercent, submission.Duration)
		} else {
			p.logger.Info("Submission %s: success in %v", submission.ID, submission.Duration)
		}
	} else {
		p.logger.Warning("Submission %s: %s: %s", submission.ID, submission.Status, submission.Message)
	}

	if p.history != nil {
		record := p.public(submission)
		if err := p.history.Insert(&record); err != nil {
			p.logger.Error("Failed to record submission %s: %v", submission.ID, err)
		}
	}

	p.notify(submission)
}

// public returns the copy of submission that may leave the request.
func (p *Predictor) public(submission *model.Submission) model.Submission {
	record := *submission
	if !p.shareDetails {
		record.Filename = ""
		record.Label = ""
		record.Confidence = 0
	}
	return record
}

func (p *Predictor) notify(submission *model.Submission) {
	record := p.public(submission)
	event := dto.SubmissionEvent{
		ID:       record.ID,
		Status:   record.Status,
		Filename: record.Filename,
		Label:    record.Label,
		Message:  record.Message,
		Time:     p.now(),
	}
	if record.Status == model.StatusSuccess && p.shareDetails {
		event.Confidence = dto.FormatPercent(record.Confidence)
	}

	for _, n := range p.notifiers {
		n.Publish(event)
	}
}

func inputMessage(err error) string {
	if errors.Is(err, backend.ErrNotZip) {
		return "Only .zip archives are accepted. Please upload a ZIP containing DICOM MRI slices."
	}
	return "Please upload a patient ZIP file before predicting."
}
