package upload

import "encoding/json"

// Upload session status values written by the ingestion layer.
const (
	StatusUploading = "uploading"
	StatusStale     = "stale"
	StatusComplete  = "complete"
)

// Manifest carries the chunk count of one upload session as handed over by
// the ingestion layer.
type Manifest struct {
	TotalChunks int `json:"totalChunks"`
}

// manifestJSON mirrors both spellings producers have historically used for
// the chunk count.
type manifestJSON struct {
	TotalChunks *int `json:"totalChunks"`
	TotalSnake  *int `json:"total_chunks"`
}

// UnmarshalJSON accepts the chunk count under either "totalChunks" or
// "total_chunks". When both are present the camel-case spelling wins.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	var raw manifestJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.TotalChunks != nil:
		m.TotalChunks = *raw.TotalChunks
	case raw.TotalSnake != nil:
		m.TotalChunks = *raw.TotalSnake
	default:
		m.TotalChunks = 0
	}

	return nil
}
