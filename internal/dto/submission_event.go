package dto

import (
	"encoding/json"
	"time"

	"dementiaui/internal/model"
)

// SubmissionEvent is broadcast to viewers and published to MQTT on every
// lifecycle transition.
type SubmissionEvent struct {
	ID         string       `json:"id"`
	Status     model.Status `json:"status"`
	Filename   string       `json:"filename"`
	Label      string       `json:"label,omitempty"`
	Confidence string       `json:"confidence,omitempty"`
	Message    string       `json:"message,omitempty"`
	Time       time.Time    `json:"time"`
}

// MarshalJSON formats the event time as RFC 3339 in UTC.
func (e SubmissionEvent) MarshalJSON() ([]byte, error) {
	type Alias SubmissionEvent
	return json.Marshal(&struct {
		Time string `json:"time"`
		Alias
	}{
		Time:  e.Time.UTC().Format(time.RFC3339),
		Alias: (Alias)(e),
	})
}
