package model

import "encoding/json"

// ZipContentType is the MIME type declared for every upload sent to the backend.
const ZipContentType = "application/zip"

// PredictionRequest is an uploaded archive waiting to be forwarded.
type PredictionRequest struct {
	Filename string
	Content  []byte
}

// PredictionResult is the backend response. Both preview field names are
// accepted; see Preview.
type PredictionResult struct {
	Prediction        string             `json:"prediction"`
	Confidence        float64            `json:"confidence"`
	Probabilities     map[string]float64 `json:"probabilities,omitempty"`
	PatientMetadata   json.RawMessage    `json:"patient_metadata,omitempty"`
	MiddleSliceBase64 string             `json:"middle_slice_base64,omitempty"`
	PreviewBase64     string             `json:"preview_base64,omitempty"`
	NumSlicesUsed     *int               `json:"num_slices_used,omitempty"`
}

// Preview returns the base64 preview image and whether one was sent.
func (r *PredictionResult) Preview() (string, bool) {
	if r.MiddleSliceBase64 != "" {
		return r.MiddleSliceBase64, true
	}
	if r.PreviewBase64 != "" {
		return r.PreviewBase64, true
	}
	return "", false
}
