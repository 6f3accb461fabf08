package services

import (
	"context"
	"testing"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSensitiveDetails(t *testing.T) {
	masked := maskSensitiveDetails(models.AuditDetails{
		"password":      "hunter2",
		"session_token": "abc",
		"signed_url":    "http://hub.test/blobs/x?signature=y",
		"grant_id":      "0123456789abcdef0123",
		"token_hash":    "short",
		"file_name":     "a.txt",
	})

	assert.Equal(t, "***REDACTED***", masked["password"])
	assert.Equal(t, "***REDACTED***", masked["session_token"])
	assert.Equal(t, "***REDACTED***", masked["signed_url"])
	assert.Equal(t, "01234567...0123", masked["grant_id"])
	assert.Equal(t, "short", masked["token_hash"])
	assert.Equal(t, "a.txt", masked["file_name"])

	assert.Nil(t, maskSensitiveDetails(nil))
}

func TestAuditService_ShutdownFlushesPending(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)

	for range 3 {
		svc.Log(context.Background(), AuditLogEntry{
			EventType:    models.EventUploadTicketIssued,
			ActorID:      "u1",
			ResourceType: models.ResourceBlob,
			Action:       "Upload ticket issued",
			Details:      models.AuditDetails{"signature": "secret"},
			Success:      true,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))
	// A second shutdown is a no-op
	require.NoError(t, svc.Shutdown(ctx))

	logs, pagination, err := svc.GetAuditLogs(
		store.NewPaginationParams(1, 10, ""),
		store.AuditLogFilters{ActorID: "u1"},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pagination.Total)
	require.Len(t, logs, 3)
	assert.Equal(t, models.SeverityInfo, logs[0].Severity)
	assert.Equal(t, "***REDACTED***", logs[0].Details["signature"])
}

func TestAuditService_LogSyncAndCleanup(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{
		EventType:    models.EventOrphanedBlob,
		Severity:     models.SeverityCritical,
		ResourceType: models.ResourceBlob,
		ResourceID:   "app/u1/x.txt",
		Action:       "Blob stored without attachment row",
	}))

	failed := false
	logs, _, err := svc.GetAuditLogs(
		store.NewPaginationParams(1, 10, ""),
		store.AuditLogFilters{Severity: models.SeverityCritical, Success: &failed},
	)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "app/u1/x.txt", logs[0].ResourceID)

	deleted, err := svc.CleanupOldLogs(24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = svc.CleanupOldLogs(-time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestAuditService_Disabled(t *testing.T) {
	s := setupTestStore(t)
	svc := NewAuditService(s, false, 0)

	svc.Log(context.Background(), AuditLogEntry{Action: "ignored"})
	require.NoError(t, svc.LogSync(context.Background(), AuditLogEntry{Action: "ignored"}))
	require.NoError(t, svc.Shutdown(context.Background()))

	var nilSvc *AuditService
	nilSvc.Log(context.Background(), AuditLogEntry{Action: "ignored"})
	assert.NoError(t, nilSvc.LogSync(context.Background(), AuditLogEntry{Action: "ignored"}))

	logs, _, err := svc.GetAuditLogs(store.NewPaginationParams(1, 10, ""), store.AuditLogFilters{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
