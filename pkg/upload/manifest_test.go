package upload

import (
	"encoding/json"
	"testing"
)

func TestManifest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"camel case field", `{"totalChunks": 7}`, 7},
		{"snake case field", `{"total_chunks": 4}`, 4},
		{"camel case wins when both present", `{"totalChunks": 3, "total_chunks": 9}`, 3},
		{"neither field present", `{"uploadId": "u1"}`, 0},
		{"explicit zero", `{"totalChunks": 0}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Manifest
			if err := json.Unmarshal([]byte(tt.in), &m); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if m.TotalChunks != tt.want {
				t.Errorf("TotalChunks = %d, want %d", m.TotalChunks, tt.want)
			}
		})
	}
}

func TestManifest_UnmarshalJSON_Invalid(t *testing.T) {
	var m Manifest
	if err := json.Unmarshal([]byte(`{"totalChunks": "three"}`), &m); err == nil {
		t.Error("expected error for non-numeric chunk count")
	}
}
