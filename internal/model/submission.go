package model

import "time"

// Status is the terminal outcome of one submission.
type Status string

const (
	StatusSubmitted      Status = "submitted"
	StatusSuccess        Status = "success"
	StatusInputError     Status = "input-error"
	StatusBackendError   Status = "backend-error"
	StatusTransportError Status = "transport-error"
)

// Submission represents a history record. It never carries the result payload.
type Submission struct {
	ID         string        `json:"id"`
	Filename   string        `json:"filename"`
	FileSize   int64         `json:"filesize"`
	Status     Status        `json:"status"`
	Label      string        `json:"label,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Message    string        `json:"message,omitempty"`
	HTTPStatus int           `json:"http_status,omitempty"`
	Duration   time.Duration `json:"duration"`
	Timestamp  time.Time     `json:"timestamp"`
}

// SubmissionFilter contains filtering options for querying history.
type SubmissionFilter struct {
	Status Status
	Limit  int
	Offset int
}

// Terminal reports whether s ends a submission.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusInputError, StatusBackendError, StatusTransportError:
		return true
	}
	return false
}
