package metrics

import "time"

// NoopMetrics discards every measurement; used when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordGrantAuthentication(success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordGrantCheck(active bool)                                    {}
func (n *NoopMetrics) RecordGrantRevoked()                                             {}

func (n *NoopMetrics) RecordTicketIssued(direction string, duration time.Duration) {}
func (n *NoopMetrics) RecordTicketDenied(direction, reason string)                 {}
func (n *NoopMetrics) RecordAttachmentRecorded(size int64)                         {}
func (n *NoopMetrics) RecordAttachmentDeleted(count int)                           {}
func (n *NoopMetrics) RecordOrphanedBlob()                                         {}
func (n *NoopMetrics) RecordBlobTransfer(method string, bytes int64)               {}

func (n *NoopMetrics) SetActiveGrantsCount(count int) {}
func (n *NoopMetrics) SetAttachmentsCount(count int)  {}

func (n *NoopMetrics) RecordDatabaseQueryError(operation string) {}
