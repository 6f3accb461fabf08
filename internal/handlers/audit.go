package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	// queryValueTrue represents the string "true" used in query parameters
	queryValueTrue = "true"

	// maxExportRows bounds a single CSV export
	maxExportRows = 10000
)

// AuditHandler serves the audit log to administrators
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLogs retrieves audit logs with pagination and filtering
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	params := store.NewPaginationParams(page, pageSize, c.Query("search"))

	logs, pagination, err := h.auditService.GetAuditLogs(params, parseAuditFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Failed to retrieve audit logs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": pagination,
	})
}

// ExportAuditLogs exports matching audit logs as CSV
func (h *AuditHandler) ExportAuditLogs(c *gin.Context) {
	params := store.PaginationParams{Page: 1, PageSize: maxExportRows, Search: c.Query("search")}

	logs, _, err := h.auditService.GetAuditLogs(params, parseAuditFilters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Failed to retrieve audit logs",
		})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(
		"attachment; filename=audit_logs_%s.csv",
		time.Now().Format("2006-01-02"),
	))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Event Time",
		"Event Type",
		"Severity",
		"Actor",
		"Actor IP",
		"Resource Type",
		"Resource ID",
		"Action",
		"Success",
		"Error Message",
	}); err != nil {
		return
	}

	for _, entry := range logs {
		successStr := "Yes"
		if !entry.Success {
			successStr = "No"
		}

		if err := writer.Write([]string{
			entry.EventTime.Format(time.RFC3339),
			string(entry.EventType),
			string(entry.Severity),
			entry.ActorID,
			entry.ActorIP,
			string(entry.ResourceType),
			entry.ResourceID,
			entry.Action,
			successStr,
			entry.ErrorMessage,
		}); err != nil {
			return
		}
	}
}

func parseAuditFilters(c *gin.Context) store.AuditLogFilters {
	filters := store.AuditLogFilters{
		EventType:    models.EventType(c.Query("event_type")),
		ActorID:      c.Query("actor_id"),
		ResourceType: models.ResourceType(c.Query("resource_type")),
		ResourceID:   c.Query("resource_id"),
		Severity:     models.EventSeverity(c.Query("severity")),
	}

	if successStr := c.Query("success"); successStr != "" {
		success := successStr == queryValueTrue
		filters.Success = &success
	}

	if startTimeStr := c.Query("start_time"); startTimeStr != "" {
		if t, err := time.Parse(time.RFC3339, startTimeStr); err == nil {
			filters.StartTime = t
		}
	}
	if endTimeStr := c.Query("end_time"); endTimeStr != "" {
		if t, err := time.Parse(time.RFC3339, endTimeStr); err == nil {
			filters.EndTime = t
		}
	}
	return filters
}
