package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type tokenRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// IssueToken exchanges operator credentials for a JWT.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id and password are required")
		return
	}

	role, err := h.Auth.Authenticate(req.UserID, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "bad credentials"})
		return
	}

	token, err := h.Auth.IssueToken(req.UserID, role)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}
