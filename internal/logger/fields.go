package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently across all log statements for log aggregation
// and querying.
const (
	// ========================================================================
	// Distributed Tracing
	// ========================================================================
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	// ========================================================================
	// Upload Sessions & Chunks
	// ========================================================================
	KeyUploadID   = "upload_id"   // Upload session identifier
	KeyChunkIndex = "chunk_index" // Zero-based chunk index within an upload
	KeyChunkCount = "chunk_count" // Expected number of chunks
	KeyChunkSize  = "chunk_size"  // Chunk size in bytes
	KeyStatus     = "status"      // Session status: uploading, assembled, failed
	KeyOutcome    = "outcome"     // Deletion outcome classification

	// ========================================================================
	// Content & Files
	// ========================================================================
	KeyContentID = "content_id" // Numeric content record identifier
	KeyPath      = "path"       // File path under the storage root
	KeySize      = "size"       // Size in bytes
	KeyExpiresAt = "expires_at" // Content expiration timestamp

	// ========================================================================
	// Client Identification
	// ========================================================================
	KeyClientIP   = "client_ip"   // Client IP address
	KeyRequestID  = "request_id"  // HTTP request identifier
	KeyUserAgent  = "user_agent"  // Client user agent
	KeyMethod     = "method"      // HTTP method
	KeyRoute      = "route"       // Matched route pattern
	KeyStatusCode = "status_code" // HTTP response status

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
	KeyOperation  = "operation"   // Sub-operation type for complex operations
	KeyPhase      = "phase"       // Sweep phase name
	KeyRows       = "rows"        // Database rows affected
	KeyAttempt    = "attempt"     // Retry attempt number

	// ========================================================================
	// Cache Layer
	// ========================================================================
	KeyCacheHit = "cache_hit" // Cache hit indicator
	KeyCacheKey = "cache_key" // Cache entry key
)

// ============================================================================
// Field constructors for type safety
// These functions provide type-safe construction of slog.Attr values.
// ============================================================================

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr {
	return slog.String(KeyTraceID, id)
}

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr {
	return slog.String(KeySpanID, id)
}

// UploadID returns a slog.Attr for an upload session identifier
func UploadID(id string) slog.Attr {
	return slog.String(KeyUploadID, id)
}

// ChunkIndex returns a slog.Attr for a chunk index
func ChunkIndex(i int) slog.Attr {
	return slog.Int(KeyChunkIndex, i)
}

// ChunkCount returns a slog.Attr for the expected chunk count
func ChunkCount(n int) slog.Attr {
	return slog.Int(KeyChunkCount, n)
}

// ChunkSize returns a slog.Attr for a chunk size in bytes
func ChunkSize(n int64) slog.Attr {
	return slog.Int64(KeyChunkSize, n)
}

// Status returns a slog.Attr for a session status
func Status(s string) slog.Attr {
	return slog.String(KeyStatus, s)
}

// Outcome returns a slog.Attr for a deletion outcome
func Outcome(o string) slog.Attr {
	return slog.String(KeyOutcome, o)
}

// ContentID returns a slog.Attr for a content record identifier
func ContentID(id int64) slog.Attr {
	return slog.Int64(KeyContentID, id)
}

// Path returns a slog.Attr for a file path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Size returns a slog.Attr for a size in bytes
func Size(s int64) slog.Attr {
	return slog.Int64(KeySize, s)
}

// ClientIP returns a slog.Attr for a client IP address
func ClientIP(addr string) slog.Attr {
	return slog.String(KeyClientIP, addr)
}

// RequestID returns a slog.Attr for an HTTP request identifier
func RequestID(id string) slog.Attr {
	return slog.String(KeyRequestID, id)
}

// Method returns a slog.Attr for an HTTP method
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// StatusCode returns a slog.Attr for an HTTP response status
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Operation returns a slog.Attr for a sub-operation type
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Phase returns a slog.Attr for a sweep phase name
func Phase(p string) slog.Attr {
	return slog.String(KeyPhase, p)
}

// Rows returns a slog.Attr for database rows affected
func Rows(n int64) slog.Attr {
	return slog.Int64(KeyRows, n)
}

// Attempt returns a slog.Attr for a retry attempt number
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// CacheHit returns a slog.Attr for a cache hit indicator
func CacheHit(hit bool) slog.Attr {
	return slog.Bool(KeyCacheHit, hit)
}

// CacheKey returns a slog.Attr for a cache entry key
func CacheKey(k string) slog.Attr {
	return slog.String(KeyCacheKey, k)
}
