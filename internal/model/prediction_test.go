package model

import (
	"encoding/json"
	"testing"
)

func TestPredictionResult_Preview(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		present bool
	}{
		{"middle slice", `{"middle_slice_base64":"AAA"}`, "AAA", true},
		{"preview", `{"preview_base64":"BBB"}`, "BBB", true},
		{"both prefers middle slice", `{"middle_slice_base64":"AAA","preview_base64":"BBB"}`, "AAA", true},
		{"empty middle falls back", `{"middle_slice_base64":"","preview_base64":"BBB"}`, "BBB", true},
		{"missing", `{"prediction":"Normal"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r PredictionResult
			if err := json.Unmarshal([]byte(tt.payload), &r); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			got, ok := r.Preview()
			if got != tt.want || ok != tt.present {
				t.Errorf("Preview() = (%q, %v), expected (%q, %v)", got, ok, tt.want, tt.present)
			}
		})
	}
}

func TestPredictionResult_OptionalFields(t *testing.T) {
	var withCount, withoutCount PredictionResult

	if err := json.Unmarshal([]byte(`{"prediction":"VaD","num_slices_used":0}`), &withCount); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"prediction":"VaD"}`), &withoutCount); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if withCount.NumSlicesUsed == nil || *withCount.NumSlicesUsed != 0 {
		t.Error("Expected num_slices_used=0 to be kept")
	}
	if withoutCount.NumSlicesUsed != nil {
		t.Error("Expected absent num_slices_used to stay nil")
	}
	if withoutCount.Probabilities != nil {
		t.Error("Expected absent probabilities to stay nil")
	}
}
