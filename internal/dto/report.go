package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"dementiaui/internal/model"
)

const previewDataPrefix = "data:image/png;base64,"

// ProbabilityRow is one line of the probability table.
type ProbabilityRow struct {
	Class       string  `json:"class"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
}

// Report is everything the result page shows for a successful prediction.
type Report struct {
	Label             string           `json:"prediction"`
	Confidence        float64          `json:"confidence"`
	ConfidencePercent string           `json:"confidence_percent"`
	Probabilities     []ProbabilityRow `json:"probabilities"`
	ProbabilityTotal  string           `json:"probability_total,omitempty"`
	Metadata          string           `json:"-"`
	PreviewSrc        string           `json:"preview_src,omitempty"`
	SliceCount        *int             `json:"num_slices_used,omitempty"`
}

// HasPreview reports whether the backend sent a preview image.
func (r *Report) HasPreview() bool {
	return r.PreviewSrc != ""
}

// MarshalJSON emits the metadata as a JSON object instead of its indented text.
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	metadata := r.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	return json.Marshal(&struct {
		Metadata json.RawMessage `json:"patient_metadata"`
		Alias
	}{
		Metadata: json.RawMessage(metadata),
		Alias:    (Alias)(r),
	})
}

// NewReport converts a decoded backend response into its display form.
// Values are shown as received; nothing is range-checked.
func NewReport(result *model.PredictionResult) *Report {
	report := &Report{
		Label:             result.Prediction,
		Confidence:        result.Confidence,
		ConfidencePercent: FormatPercent(result.Confidence),
		Metadata:          formatMetadata(result.PatientMetadata),
		SliceCount:        result.NumSlicesUsed,
	}

	if len(result.Probabilities) > 0 {
		var total float64
		for class, p := range result.Probabilities {
			report.Probabilities = append(report.Probabilities, ProbabilityRow{
				Class:       class,
				Probability: p,
				Percent:     FormatPercent(p),
			})
			total += p
		}
		sort.Slice(report.Probabilities, func(i, j int) bool {
			a, b := report.Probabilities[i], report.Probabilities[j]
			if a.Probability != b.Probability {
				return a.Probability > b.Probability
			}
			return a.Class < b.Class
		})
		report.ProbabilityTotal = fmt.Sprintf("%.2f", total)
	}

	if preview, ok := result.Preview(); ok {
		report.PreviewSrc = PreviewSource(preview)
	}

	return report
}

// FormatPercent renders a [0,1] fraction as a percentage with two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// PreviewSource turns the backend's base64 string into an <img> source.
// The string is not decoded.
func PreviewSource(b64 string) string {
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	return previewDataPrefix + b64
}

func formatMetadata(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "{}"
	}

	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return out.String()
}
