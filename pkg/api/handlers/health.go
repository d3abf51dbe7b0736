package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/marmos91/dropvault/internal/diskstat"
	"github.com/marmos91/dropvault/pkg/store"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Is the database reachable?
//   - Storage health: Capacity of the filesystem under the storage root
type HealthHandler struct {
	store       *store.Store
	storageRoot string
	minFree     uint64
}

// NewHealthHandler creates a new health handler.
//
// The store parameter may be nil, in which case the readiness check
// returns unhealthy status. minFree is the number of bytes that must stay
// free under the storage root for the storage check to pass; zero disables
// the check.
func NewHealthHandler(store *store.Store, storageRoot string, minFree uint64) *HealthHandler {
	return &HealthHandler{
		store:       store,
		storageRoot: storageRoot,
		minFree:     minFree,
	}
}

// Liveness handles GET /health - simple liveness probe.
//
// Returns 200 OK if the server process is running. This endpoint is designed
// for Kubernetes liveness probes and should always succeed as long as the
// HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dropvault",
	}))
}

// Readiness handles GET /health/ready - readiness probe.
//
// Returns 200 OK if the server is ready to accept work. This checks:
//   - Store is initialized
//   - Database responds to a ping
//
// Returns 503 Service Unavailable if the server is not ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("store not initialized"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Healthcheck(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("database unreachable: "+err.Error()))
		return
	}

	sessions, err := h.store.CountSessions(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("session count failed: "+err.Error()))
		return
	}
	content, err := h.store.CountContent(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("content count failed: "+err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(map[string]interface{}{
		"database": string(h.store.Type()),
		"sessions": sessions,
		"content":  content,
	}))
}

// StorageResponse describes the capacity of the storage root filesystem.
type StorageResponse struct {
	Root         string  `json:"root"`
	TotalBytes   uint64  `json:"total_bytes"`
	FreeBytes    uint64  `json:"free_bytes"`
	UsedBytes    uint64  `json:"used_bytes"`
	UsedPercent  float64 `json:"used_percent"`
	MinFreeBytes uint64  `json:"min_free_bytes,omitempty"`
}

// Storage handles GET /health/storage - storage root capacity.
//
// Returns 200 OK with the filesystem usage of the storage root, or 503
// Service Unavailable when the root cannot be inspected or free space has
// fallen below the configured minimum.
func (h *HealthHandler) Storage(w http.ResponseWriter, r *http.Request) {
	usage, err := diskstat.Stat(h.storageRoot)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("storage root unreachable: "+err.Error()))
		return
	}

	response := StorageResponse{
		Root:         h.storageRoot,
		TotalBytes:   usage.TotalBytes,
		FreeBytes:    usage.FreeBytes,
		UsedBytes:    usage.UsedBytes,
		UsedPercent:  usage.UsedPercent(),
		MinFreeBytes: h.minFree,
	}

	if h.minFree > 0 && usage.FreeBytes < h.minFree {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponseWithData(response))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(response))
}
