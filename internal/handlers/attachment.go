package handlers

import (
	"net/http"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/middleware"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// AttachmentHandler exposes the transfer mediator. It never sees file bytes.
type AttachmentHandler struct {
	transfer *services.TransferService
}

func NewAttachmentHandler(transfer *services.TransferService) *AttachmentHandler {
	return &AttachmentHandler{transfer: transfer}
}

// UploadTicket issues a signed PUT URL for a new attachment
func (h *AttachmentHandler) UploadTicket(c *gin.Context) {
	var req services.UploadTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "target_type, file_name and content_type are required")
		return
	}

	ticket, err := h.transfer.RequestUploadTicket(
		requestContext(c),
		middleware.GetCaller(c),
		req.TargetType,
		req.FileName,
		req.FileSize,
		req.ContentType,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// DownloadTicket issues a signed GET URL for an existing attachment
func (h *AttachmentHandler) DownloadTicket(c *gin.Context) {
	var req services.DownloadTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "storage_path and target_type are required")
		return
	}

	ticket, err := h.transfer.RequestDownloadTicket(
		requestContext(c),
		middleware.GetCaller(c),
		req.StoragePath,
		req.TargetType,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Record binds an uploaded blob to its target
func (h *AttachmentHandler) Record(c *gin.Context) {
	var in services.RecordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "target_id, target_type, name, content_type and storage_path are required")
		return
	}

	attachment, err := h.transfer.RecordUpload(requestContext(c), middleware.GetCaller(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, attachment)
}

// List returns a target's attachments, oldest first
func (h *AttachmentHandler) List(c *gin.Context) {
	targetID := c.Query("target_id")
	if targetID == "" {
		respondBadRequest(c, "target_id is required")
		return
	}

	attachments, err := h.transfer.ListAttachments(
		requestContext(c),
		middleware.GetCaller(c),
		targetID,
		models.TargetType(c.Query("target_type")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

// Delete removes one attachment and its blob
func (h *AttachmentHandler) Delete(c *gin.Context) {
	if err := h.transfer.RemoveAttachment(
		requestContext(c),
		middleware.GetCaller(c),
		c.Param("id"),
	); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteForTarget removes every attachment of a target, as when the app or
// prompt itself is deleted
func (h *AttachmentHandler) DeleteForTarget(c *gin.Context) {
	deleted, err := h.transfer.RemoveTargetAttachments(
		requestContext(c),
		middleware.GetCaller(c),
		c.Param("id"),
		models.TargetType(c.Param("type")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
