package metrics

import "time"

const (
	resultSuccess  = "success"
	resultFailure  = "failure"
	resultActive   = "active"
	resultInactive = "inactive"
)

// RecordGrantAuthentication records an access grant login attempt
func (m *Metrics) RecordGrantAuthentication(success bool, duration time.Duration) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.GrantAuthTotal.WithLabelValues(result).Inc()
	m.GrantAuthDuration.Observe(duration.Seconds())
}

// RecordGrantCheck records the outcome of an isGrantActive lookup
func (m *Metrics) RecordGrantCheck(active bool) {
	result := resultActive
	if !active {
		result = resultInactive
	}
	m.GrantChecksTotal.WithLabelValues(result).Inc()
}

// RecordGrantRevoked records an administrator revoking a grant
func (m *Metrics) RecordGrantRevoked() {
	m.GrantsRevokedTotal.Inc()
}

// RecordTicketIssued records a signed URL handed to a caller
func (m *Metrics) RecordTicketIssued(direction string, duration time.Duration) {
	m.TicketsIssuedTotal.WithLabelValues(direction).Inc()
	m.TicketIssueDuration.WithLabelValues(direction).Observe(duration.Seconds())
}

// RecordTicketDenied records a refused ticket request
func (m *Metrics) RecordTicketDenied(direction, reason string) {
	// reason: unauthenticated, forbidden, invalid, storage
	m.TicketsDeniedTotal.WithLabelValues(direction, reason).Inc()
}

// RecordAttachmentRecorded records a new attachment row
func (m *Metrics) RecordAttachmentRecorded(size int64) {
	m.AttachmentsRecorded.Inc()
	m.AttachmentBytes.Observe(float64(size))
	m.AttachmentsStored.Inc()
}

// RecordAttachmentDeleted records count attachment rows removed
func (m *Metrics) RecordAttachmentDeleted(count int) {
	m.AttachmentsDeleted.Add(float64(count))
	m.AttachmentsStored.Sub(float64(count))
}

// RecordOrphanedBlob records a blob whose metadata row failed to persist
func (m *Metrics) RecordOrphanedBlob() {
	m.OrphanedBlobsTotal.Inc()
}

// RecordBlobTransfer records bytes moved by the signed blob endpoint
func (m *Metrics) RecordBlobTransfer(method string, bytes int64) {
	m.BlobTransferBytesTotal.WithLabelValues(method).Add(float64(bytes))
}

// SetActiveGrantsCount sets the active grant gauge (for periodic updates)
func (m *Metrics) SetActiveGrantsCount(count int) {
	m.GrantsActive.Set(float64(count))
}

// SetAttachmentsCount sets the stored attachment gauge (for periodic updates)
func (m *Metrics) SetAttachmentsCount(count int) {
	m.AttachmentsStored.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
