package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	AccessCode string `json:"accessCode" binding:"required"`
	UserID     string `json:"userId" binding:"required"`
}

// IssueToken exchanges the shared access code for a bearer token scoped to
// the requested user id.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accessCode and userId are required"})
		return
	}

	if !h.auth.CheckAccessCode(req.AccessCode) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access code"})
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId must not be blank"})
		return
	}

	token, err := h.auth.Issue(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
