package handlers

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/blob"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"

	"github.com/gin-gonic/gin"
)

// BlobHandler is the storage endpoint behind locally signed URLs. The
// signature is the only credential it accepts.
type BlobHandler struct {
	signer  *blob.LocalSigner
	store   *blob.FSStore
	metrics core.Recorder
	maxSize int64
}

func NewBlobHandler(
	signer *blob.LocalSigner,
	store *blob.FSStore,
	m core.Recorder,
	maxSize int64,
) *BlobHandler {
	return &BlobHandler{signer: signer, store: store, metrics: m, maxSize: maxSize}
}

// Put stores the request body at the signed path. A path is written once.
func (h *BlobHandler) Put(c *gin.Context) {
	grant, ok := h.verify(c, http.MethodPut)
	if !ok {
		return
	}

	contentType := c.GetHeader("Content-Type")
	if grant.ContentType != "" && !sameMediaType(contentType, grant.ContentType) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":             "forbidden",
			"error_description": "Content-Type does not match the signed upload",
		})
		return
	}
	if h.maxSize > 0 && c.Request.ContentLength > h.maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":             "too_large",
			"error_description": "Upload exceeds the maximum size of " + strconv.FormatInt(h.maxSize, 10) + " bytes",
		})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.Stat(ctx, grant.Path); err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":             "blob_exists",
			"error_description": "A blob already exists at this path",
		})
		return
	}

	n, err := h.store.Put(ctx, grant.Path, contentType, c.Request.Body, h.maxSize)
	if err != nil {
		if errors.Is(err, blob.ErrBlobTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":             "too_large",
				"error_description": "Upload exceeds the maximum size",
			})
			return
		}
		if errors.Is(err, blob.ErrBlobExists) {
			c.JSON(http.StatusConflict, gin.H{
				"error":             "blob_exists",
				"error_description": "A blob already exists at this path",
			})
			return
		}
		log.Printf("[Blob] Failed to store %s: %v", grant.Path, err)
		respondError(c, core.ErrStorageUnavailable)
		return
	}

	h.metrics.RecordBlobTransfer(http.MethodPut, n)
	c.Status(http.StatusCreated)
}

// Get streams the blob at the signed path
func (h *BlobHandler) Get(c *gin.Context) {
	grant, ok := h.verify(c, http.MethodGet)
	if !ok {
		return
	}

	f, info, err := h.store.Open(c.Request.Context(), grant.Path)
	if err != nil {
		if errors.Is(err, blob.ErrBlobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":             "blob_not_found",
				"error_description": "Blob not found",
			})
			return
		}
		log.Printf("[Blob] Failed to open %s: %v", grant.Path, err)
		respondError(c, core.ErrStorageUnavailable)
		return
	}
	defer f.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, info.Size, contentType, f, map[string]string{
		"Cache-Control": "private, no-store",
	})
	h.metrics.RecordBlobTransfer(http.MethodGet, info.Size)
}

// verify checks the signature query parameter against the method and path
func (h *BlobHandler) verify(c *gin.Context, method string) (*blob.Grant, bool) {
	p := strings.TrimPrefix(c.Param("path"), "/")

	grant, err := h.signer.Verify(c.Query(blob.SignatureParam), method, p)
	if err != nil {
		description := "Invalid signature"
		if errors.Is(err, blob.ErrExpiredSignature) {
			description = "Signature has expired"
		}
		c.JSON(http.StatusForbidden, gin.H{
			"error":             "forbidden",
			"error_description": description,
		})
		return nil, false
	}
	return grant, true
}

// sameMediaType compares media types, ignoring parameters such as charset
func sameMediaType(a, b string) bool {
	ma, _, errA := mime.ParseMediaType(a)
	mb, _, errB := mime.ParseMediaType(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return ma == mb
}
