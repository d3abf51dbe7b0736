package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for upload-plane operations.
// These follow OpenTelemetry semantic conventions where applicable.
// Keys are grouped by the component that emits them.
const (
	// ========================================================================
	// Client attributes
	// ========================================================================
	AttrClientIP   = "client.ip"
	AttrClientAddr = "client.address"
	AttrClientPort = "client.port"

	// ========================================================================
	// Upload session attributes
	// ========================================================================
	AttrUploadID    = "upload.id"
	AttrUploadState = "upload.state"
	AttrChunkIndex  = "upload.chunk_index"
	AttrChunkCount  = "upload.chunk_count"
	AttrChunkSize   = "upload.chunk_size"
	AttrTotalSize   = "upload.total_size"
	AttrChecksum    = "upload.checksum"

	// ========================================================================
	// Content attributes
	// ========================================================================
	AttrContentID   = "content.id"
	AttrContentSize = "content.size"
	AttrFilePath    = "file.path"

	// ========================================================================
	// Sweep attributes
	// ========================================================================
	AttrSweepPhase     = "sweep.phase"
	AttrSweepReclaimed = "sweep.reclaimed"
	AttrSweepDeleted   = "sweep.deleted"
	AttrSweepFailed    = "sweep.failed"

	// ========================================================================
	// Cleanup attributes
	// ========================================================================
	AttrCleanupOutcome = "cleanup.outcome"

	// ========================================================================
	// Cache attributes
	// ========================================================================
	AttrCacheHit = "cache.hit"
	AttrCacheKey = "cache.key"

	// ========================================================================
	// Record store attributes
	// ========================================================================
	AttrStoreType = "store.type"
	AttrStoreRows = "store.rows"
)

// Span names for operations.
// Format: <component>.<operation>
const (
	// ========================================================================
	// Upload pipeline spans
	// ========================================================================
	SpanUploadCreate   = "upload.create"
	SpanUploadChunk    = "upload.chunk"
	SpanUploadAssemble = "upload.assemble"
	SpanUploadComplete = "upload.complete"
	SpanUploadAbort    = "upload.abort"
	SpanChunkValidate  = "chunk.validate"
	SpanCleanupChunks  = "cleanup.chunks"

	// ========================================================================
	// Sweeper spans
	// ========================================================================
	SpanSweepRun     = "sweep.run"
	SpanSweepReclaim = "sweep.reclaim"
	SpanSweepPrune   = "sweep.prune"

	// ========================================================================
	// Persistence spans
	// ========================================================================
	SpanCacheLookup     = "cache.lookup"
	SpanCacheWrite      = "cache.write"
	SpanCacheInvalidate = "cache.invalidate"
	SpanStoreQuery      = "store.query"
	SpanStoreDelete     = "store.delete"
)

// ClientIP returns an attribute for client IP address
func ClientIP(ip string) attribute.KeyValue {
	return attribute.String(AttrClientIP, ip)
}

// ClientAddr returns an attribute for full client address
func ClientAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrClientAddr, addr)
}

// UploadID returns an attribute for upload session identifier
func UploadID(id string) attribute.KeyValue {
	return attribute.String(AttrUploadID, id)
}

// UploadState returns an attribute for upload session state
func UploadState(state string) attribute.KeyValue {
	return attribute.String(AttrUploadState, state)
}

// ChunkIndex returns an attribute for chunk position within an upload
func ChunkIndex(index int) attribute.KeyValue {
	return attribute.Int(AttrChunkIndex, index)
}

// ChunkCount returns an attribute for the number of chunks in an upload
func ChunkCount(count int) attribute.KeyValue {
	return attribute.Int(AttrChunkCount, count)
}

// ChunkSize returns an attribute for chunk size in bytes
func ChunkSize(size uint64) attribute.KeyValue {
	return attribute.Int64(AttrChunkSize, int64(size))
}

// TotalSize returns an attribute for total upload size in bytes
func TotalSize(size uint64) attribute.KeyValue {
	return attribute.Int64(AttrTotalSize, int64(size))
}

// Checksum returns an attribute for content checksum
func Checksum(sum string) attribute.KeyValue {
	return attribute.String(AttrChecksum, sum)
}

// ContentID returns an attribute for content record identifier
func ContentID(id int64) attribute.KeyValue {
	return attribute.Int64(AttrContentID, id)
}

// ContentSize returns an attribute for content size in bytes
func ContentSize(size uint64) attribute.KeyValue {
	return attribute.Int64(AttrContentSize, int64(size))
}

// FilePath returns an attribute for an on-disk file path
func FilePath(path string) attribute.KeyValue {
	return attribute.String(AttrFilePath, path)
}

// SweepPhase returns an attribute for the sweep phase name
func SweepPhase(phase string) attribute.KeyValue {
	return attribute.String(AttrSweepPhase, phase)
}

// SweepReclaimed returns an attribute for reclaimed item count
func SweepReclaimed(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSweepReclaimed, n)
}

// SweepDeleted returns an attribute for deleted row count
func SweepDeleted(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSweepDeleted, n)
}

// SweepFailed returns an attribute for failed item count
func SweepFailed(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSweepFailed, n)
}

// CleanupOutcome returns an attribute for a file removal outcome
func CleanupOutcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrCleanupOutcome, outcome)
}

// CacheHit returns an attribute for cache hit indicator
func CacheHit(hit bool) attribute.KeyValue {
	return attribute.Bool(AttrCacheHit, hit)
}

// CacheKey returns an attribute for cache key
func CacheKey(key string) attribute.KeyValue {
	return attribute.String(AttrCacheKey, key)
}

// StoreType returns an attribute for record store backend type
func StoreType(t string) attribute.KeyValue {
	return attribute.String(AttrStoreType, t)
}

// StoreRows returns an attribute for affected row count
func StoreRows(n int64) attribute.KeyValue {
	return attribute.Int64(AttrStoreRows, n)
}

// StartUploadSpan starts a span for an upload session operation.
// This is a convenience function that sets common attributes.
func StartUploadSpan(ctx context.Context, operation string, uploadID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		UploadID(uploadID),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "upload."+operation, trace.WithAttributes(allAttrs...))
}

// StartSweepSpan starts a span for a sweeper operation.
func StartSweepSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "sweep."+operation, trace.WithAttributes(attrs...))
}

// StartCacheSpan starts a span for a cache operation.
func StartCacheSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "cache."+operation, trace.WithAttributes(attrs...))
}

// StartStoreSpan starts a span for a record store operation.
func StartStoreSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, "store."+operation, trace.WithAttributes(attrs...))
}
