package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/util"

	"github.com/google/uuid"
)

const auditBatchSize = 100

// AuditLogEntry represents the data needed to create an audit log entry
type AuditLogEntry struct {
	EventType    models.EventType
	Severity     models.EventSeverity
	ActorID      string
	ActorIP      string
	ResourceType models.ResourceType
	ResourceID   string
	Action       string
	Details      models.AuditDetails
	Success      bool
	ErrorMessage string
}

// AuditService writes audit rows in the background, in batches
type AuditService struct {
	store      *store.Store
	enabled    bool
	bufferSize int

	logChan chan *models.AuditLog

	batchBuffer []*models.AuditLog
	batchMutex  sync.Mutex
	batchTicker *time.Ticker

	wg           sync.WaitGroup
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewAuditService creates a new audit service
func NewAuditService(s *store.Store, enabled bool, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	service := &AuditService{
		store:       s,
		enabled:     enabled,
		bufferSize:  bufferSize,
		logChan:     make(chan *models.AuditLog, bufferSize),
		batchBuffer: make([]*models.AuditLog, 0, auditBatchSize),
		batchTicker: time.NewTicker(1 * time.Second),
		shutdownCh:  make(chan struct{}),
	}

	if enabled {
		service.wg.Add(1)
		go service.worker()
		log.Printf("[Audit] Service started with buffer size %d", bufferSize)
	} else {
		service.batchTicker.Stop()
		log.Println("[Audit] Service is disabled")
	}

	return service
}

func (s *AuditService) worker() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.logChan:
			s.addToBatch(entry)

		case <-s.batchTicker.C:
			s.flushBatch()

		case <-s.shutdownCh:
			// Drain whatever is still queued before the final flush
			for {
				select {
				case entry := <-s.logChan:
					s.addToBatch(entry)
				default:
					s.flushBatch()
					return
				}
			}
		}
	}
}

func (s *AuditService) addToBatch(entry *models.AuditLog) {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()

	s.batchBuffer = append(s.batchBuffer, entry)
	if len(s.batchBuffer) >= auditBatchSize {
		s.flushBatchUnsafe()
	}
}

func (s *AuditService) flushBatch() {
	s.batchMutex.Lock()
	defer s.batchMutex.Unlock()
	s.flushBatchUnsafe()
}

// flushBatchUnsafe writes the buffer; caller must hold batchMutex
func (s *AuditService) flushBatchUnsafe() {
	if len(s.batchBuffer) == 0 {
		return
	}

	toWrite := make([]*models.AuditLog, len(s.batchBuffer))
	copy(toWrite, s.batchBuffer)
	s.batchBuffer = s.batchBuffer[:0]

	if err := s.store.CreateAuditLogBatch(toWrite); err != nil {
		log.Printf("[Audit] Failed to write batch of %d: %v", len(toWrite), err)
	}
}

func (s *AuditService) build(ctx context.Context, entry AuditLogEntry) *models.AuditLog {
	if entry.ActorIP == "" {
		entry.ActorIP = util.GetIPFromContext(ctx)
	}
	if entry.Severity == "" {
		entry.Severity = models.SeverityInfo
	}

	now := time.Now()
	return &models.AuditLog{
		ID:           uuid.New().String(),
		EventType:    entry.EventType,
		EventTime:    now,
		Severity:     entry.Severity,
		ActorID:      entry.ActorID,
		ActorIP:      entry.ActorIP,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Action:       entry.Action,
		Details:      maskSensitiveDetails(entry.Details),
		Success:      entry.Success,
		ErrorMessage: entry.ErrorMessage,
		CreatedAt:    now,
	}
}

// Log records an audit log entry asynchronously. A full buffer drops the entry.
func (s *AuditService) Log(ctx context.Context, entry AuditLogEntry) {
	if s == nil || !s.enabled {
		return
	}

	auditLog := s.build(ctx, entry)
	select {
	case s.logChan <- auditLog:
	default:
		log.Printf("[Audit] WARNING: buffer full, dropping event: %s", entry.Action)
	}
}

// LogSync records an audit log entry synchronously (for critical events)
func (s *AuditService) LogSync(ctx context.Context, entry AuditLogEntry) error {
	if s == nil || !s.enabled {
		return nil
	}
	return s.store.CreateAuditLog(s.build(ctx, entry))
}

// GetAuditLogs retrieves audit logs with pagination and filtering
func (s *AuditService) GetAuditLogs(
	params store.PaginationParams,
	filters store.AuditLogFilters,
) ([]models.AuditLog, store.PaginationResult, error) {
	return s.store.GetAuditLogsPaginated(params, filters)
}

// CleanupOldLogs deletes audit logs older than the retention period
func (s *AuditService) CleanupOldLogs(retention time.Duration) (int64, error) {
	return s.store.DeleteOldAuditLogs(time.Now().Add(-retention))
}

// Shutdown flushes pending entries and stops the worker
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	s.shutdownOnce.Do(func() {
		s.batchTicker.Stop()
		close(s.shutdownCh)
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Audit] Service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// maskSensitiveDetails redacts secrets and shortens identifiers in details
func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return details
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		if isSensitiveField(key) {
			masked[key] = "***REDACTED***"
			continue
		}
		if isPartialMaskField(key) {
			if str, ok := value.(string); ok && len(str) > 12 {
				masked[key] = str[:8] + "..." + str[len(str)-4:]
				continue
			}
		}
		masked[key] = value
	}
	return masked
}

func isSensitiveField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range []string{"password", "secret", "token", "signature", "signed_url"} {
		if strings.Contains(key, field) && !isPartialMaskField(key) {
			return true
		}
	}
	return false
}

func isPartialMaskField(key string) bool {
	key = strings.ToLower(key)
	for _, field := range []string{"token_hash", "grant_id"} {
		if strings.Contains(key, field) {
			return true
		}
	}
	return false
}
