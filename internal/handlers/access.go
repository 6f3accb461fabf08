package handlers

import (
	"net/http"

	"github.com/aklabs-84/AIServiceHub-sub000/internal/core"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/middleware"
	"github.com/aklabs-84/AIServiceHub-sub000/internal/services"

	"github.com/gin-gonic/gin"
)

// AccessHandler lets grant holders log in and check their session
type AccessHandler struct {
	grants *services.GrantService
}

func NewAccessHandler(grants *services.GrantService) *AccessHandler {
	return &AccessHandler{grants: grants}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges grant credentials for a session token. Unknown usernames
// and wrong passwords get the same response.
func (h *AccessHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	result, err := h.grants.Authenticate(requestContext(c), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status reports whether the presented grant session token is still active
func (h *AccessHandler) Status(c *gin.Context) {
	holder, ok := middleware.GetCaller(c).(core.GrantHolder)
	if !ok {
		respondError(c, core.ErrUnauthenticated)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"active": h.grants.IsGrantActive(c.Request.Context(), holder.Token),
	})
}
