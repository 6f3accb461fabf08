package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/models"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages access grants and content target records
type AdminHandler struct {
	grants  *services.GrantService
	targets *services.TargetService
}

func NewAdminHandler(grants *services.GrantService, targets *services.TargetService) *AdminHandler {
	return &AdminHandler{grants: grants, targets: targets}
}

type createGrantRequest struct {
	Username      string `json:"username"       binding:"required"`
	Password      string `json:"password"       binding:"required"`
	DurationHours int    `json:"duration_hours" binding:"required"`
}

// CreateGrant issues a new access grant
func (h *AdminHandler) CreateGrant(c *gin.Context) {
	var req createGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username, password and duration_hours are required")
		return
	}

	id, err := h.grants.CreateWithPassword(
		requestContext(c), req.Username, req.Password, req.DurationHours,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListGrants returns grants newest first
func (h *AdminHandler) ListGrants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	grants, pagination, err := h.grants.List(
		c.Request.Context(),
		store.NewPaginationParams(page, pageSize, c.Query("search")),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grants":     grants,
		"pagination": pagination,
	})
}

// GetGrant returns one grant
func (h *AdminHandler) GetGrant(c *gin.Context) {
	grant, err := h.grants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

// RevokeGrant deletes a grant; its session stops working at once
func (h *AdminHandler) RevokeGrant(c *gin.Context) {
	if err := h.grants.Revoke(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type upsertTargetRequest struct {
	OwnerID    string            `json:"owner_id"   binding:"required"`
	Visibility models.Visibility `json:"visibility" binding:"required"`
}

// UpsertTarget registers an app or prompt, or updates its owner and visibility
func (h *AdminHandler) UpsertTarget(c *gin.Context) {
	var req upsertTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "owner_id and visibility are required")
		return
	}

	target, err := h.targets.Upsert(
		requestContext(c),
		models.TargetType(c.Param("type")),
		c.Param("id"),
		req.OwnerID,
		req.Visibility,
	)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTarget) {
			respondBadRequest(c, err.Error())
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}
