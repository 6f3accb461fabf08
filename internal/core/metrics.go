package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Access grants
	RecordGrantAuthentication(success bool, duration time.Duration)
	RecordGrantCheck(active bool)
	RecordGrantRevoked()

	// Transfers
	RecordTicketIssued(direction string, duration time.Duration)
	RecordTicketDenied(direction, reason string)
	RecordAttachmentRecorded(size int64)
	RecordAttachmentDeleted(count int)
	RecordOrphanedBlob()
	RecordBlobTransfer(method string, bytes int64)

	// Gauge Setters (for periodic updates)
	SetActiveGrantsCount(count int)
	SetAttachmentsCount(count int)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}

// MetricsStore defines the DB operations needed by CacheWrapper.
type MetricsStore interface {
	CountActiveGrants() (int64, error)
	CountAttachments() (int64, error)
}
