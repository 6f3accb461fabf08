package metrics

import (
	"sync"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics interface consumed by services and handlers
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Access grant metrics
	GrantAuthTotal     *prometheus.CounterVec
	GrantAuthDuration  prometheus.Histogram
	GrantChecksTotal   *prometheus.CounterVec
	GrantsRevokedTotal prometheus.Counter
	GrantsActive       prometheus.Gauge

	// Transfer metrics
	TicketsIssuedTotal     *prometheus.CounterVec
	TicketsDeniedTotal     *prometheus.CounterVec
	TicketIssueDuration    *prometheus.HistogramVec
	AttachmentsRecorded    prometheus.Counter
	AttachmentBytes        prometheus.Histogram
	AttachmentsDeleted     prometheus.Counter
	AttachmentsStored      prometheus.Gauge
	OrphanedBlobsTotal     prometheus.Counter
	BlobTransferBytesTotal *prometheus.CounterVec

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init returns Prometheus-backed metrics when enabled and NoopMetrics otherwise.
// Prometheus collectors are registered once per process.
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}

	once.Do(func() {
		defaultMetrics = initMetrics()
	})
	return defaultMetrics
}

// initMetrics creates and registers all Prometheus metrics
func initMetrics() *Metrics {
	return &Metrics{
		GrantAuthTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_grant_authentications_total",
				Help: "Total number of access grant login attempts",
			},
			[]string{"result"}, // success, failure
		),
		GrantAuthDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "access_grant_authentication_duration_seconds",
				Help:    "Access grant login duration including password hashing",
				Buckets: prometheus.DefBuckets,
			},
		),
		GrantChecksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "access_grant_checks_total",
				Help: "Total number of grant activity checks",
			},
			[]string{"result"}, // active, inactive
		),
		GrantsRevokedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "access_grants_revoked_total",
				Help: "Total number of access grants revoked",
			},
		),
		GrantsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "access_grants_active",
				Help: "Current number of grants holding an unexpired session",
			},
		),

		TicketsIssuedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_tickets_issued_total",
				Help: "Total number of signed transfer URLs issued",
			},
			[]string{"direction"}, // upload, download
		),
		TicketsDeniedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfer_tickets_denied_total",
				Help: "Total number of transfer ticket requests refused",
			},
			[]string{"direction", "reason"},
		),
		TicketIssueDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transfer_ticket_issue_duration_seconds",
				Help:    "Time spent authorizing and signing a transfer ticket",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"direction"},
		),
		AttachmentsRecorded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "attachments_recorded_total",
				Help: "Total number of attachment rows recorded",
			},
		),
		AttachmentBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "attachment_size_bytes",
				Help:    "Size of recorded attachments",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		AttachmentsDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "attachments_deleted_total",
				Help: "Total number of attachment rows deleted",
			},
		),
		AttachmentsStored: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "attachments_stored",
				Help: "Current number of attachment rows",
			},
		),
		OrphanedBlobsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "orphaned_blob_candidates_total",
				Help: "Blobs written to storage whose metadata row could not be recorded",
			},
		),
		BlobTransferBytesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blob_transfer_bytes_total",
				Help: "Bytes moved through the signed blob endpoint",
			},
			[]string{"method"}, // PUT, GET
		),

		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being served",
			},
		),

		DatabaseQueryErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_query_errors_total",
				Help: "Total number of database query errors during metric collection",
			},
			[]string{"operation"}, // count_active_grants, count_attachments
		),
	}
}
