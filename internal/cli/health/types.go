// Package health provides shared types for decoding ops server responses.
package health

// Response represents the /health and /health/ready response structure.
// Liveness fills Service; readiness fills Database, Sessions and Content.
type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      struct {
		Service  string `json:"service"`
		Database string `json:"database"`
		Sessions int64  `json:"sessions"`
		Content  int64  `json:"content"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}

// StorageResponse represents the /health/storage response structure.
type StorageResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Data      struct {
		Root         string  `json:"root"`
		TotalBytes   uint64  `json:"total_bytes"`
		FreeBytes    uint64  `json:"free_bytes"`
		UsedBytes    uint64  `json:"used_bytes"`
		UsedPercent  float64 `json:"used_percent"`
		MinFreeBytes uint64  `json:"min_free_bytes,omitempty"`
	} `json:"data"`
	Error string `json:"error,omitempty"`
}
