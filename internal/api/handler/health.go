package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth is public: load balancers and the setup script poll it before
// any token exists.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// GetServices reports per-service status, also public.
func (h *Handler) GetServices(c *gin.Context) {
	services := gin.H{
		"api":     "operational",
		"relay":   "operational",
		"case_db": "operational",
		"content": "operational",
	}

	if _, err := h.Store.ListInvestigations(); err != nil {
		services["case_db"] = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
