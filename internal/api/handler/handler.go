// Package handler wires the REST API: every protected route passes through
// the auth middleware, handlers call into the case store and content
// store, and committed mutations are handed to the activity recorder.
package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/auth"
	"relaynode/backend/internal/content"
	"relaynode/backend/internal/storage"
)

const Version = "1.2.0"

type Handler struct {
	Store    storage.Storage
	Content  content.Store
	Auth     *auth.Service
	Recorder *activity.Recorder
	Log      *zap.SugaredLogger
}

func NewHandler(store storage.Storage, cs content.Store, authSvc *auth.Service, rec *activity.Recorder, log *zap.SugaredLogger) *Handler {
	return &Handler{
		Store:    store,
		Content:  cs,
		Auth:     authSvc,
		Recorder: rec,
		Log:      log,
	}
}

// Router builds the gin engine. Health and service status stay public;
// everything else sits behind the bearer-token middleware with
// per-route permission checks.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), correlationID())

	api := r.Group("/api/v1")

	// Public
	api.GET("/health", h.GetHealth)
	api.GET("/services", h.GetServices)
	api.POST("/auth/token", h.IssueToken)

	// Everything below requires a valid bearer token.
	protected := api.Group("", auth.RequireAuth(h.Auth))

	inv := protected.Group("/investigations")
	inv.GET("", auth.RequirePermission("read_investigation"), h.ListInvestigations)
	inv.POST("", auth.RequirePermission("create_investigation"), h.CreateInvestigation)
	inv.GET("/:id", auth.RequirePermission("read_investigation"), h.GetInvestigation)
	inv.PUT("/:id", auth.RequirePermission("update_investigation"), h.UpdateInvestigation)
	inv.DELETE("/:id", auth.RequirePermission("delete_investigation"), h.DeleteInvestigation)

	inv.GET("/:id/tasks", auth.RequirePermission("read_tasks"), h.ListTasks)
	inv.POST("/:id/tasks", auth.RequirePermission("create_tasks"), h.CreateTask)
	inv.PUT("/:id/tasks/:taskId", auth.RequirePermission("create_tasks"), h.UpdateTask)
	inv.DELETE("/:id/tasks/:taskId", auth.RequirePermission("create_tasks"), h.DeleteTask)

	inv.GET("/:id/evidence", auth.RequirePermission("read_evidence"), h.ListEvidence)
	inv.POST("/:id/evidence", auth.RequirePermission("create_evidence"), h.CreateEvidence)

	inv.GET("/:id/activities", auth.RequirePermission("read_activities"), h.ListActivities)

	inv.GET("/:id/team", auth.RequirePermission("read_investigation"), h.ListTeamMembers)
	inv.POST("/:id/team", auth.RequirePermission("update_investigation"), h.AddTeamMember)

	inv.GET("/:id/chat", auth.RequirePermission("read_investigation"), h.ListChatMessages)
	inv.POST("/:id/chat", auth.RequirePermission("read_investigation"), h.PostChatMessage)
	inv.DELETE("/:id/chat/:messageId", auth.RequirePermission("update_investigation"), h.DeleteChatMessage)

	ipfs := protected.Group("/ipfs")
	ipfs.POST("/add", auth.RequirePermission("create_evidence"), h.IPFSAdd)
	ipfs.GET("/cat/:cid", auth.RequirePermission("read_evidence"), h.IPFSCat)
	ipfs.POST("/pin/:cid", auth.RequirePermission("create_evidence"), h.IPFSPin)

	return r
}

// correlationID tags every request so error logs and the audit rows they
// produce can be cross-referenced.
func correlationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Correlation-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("correlation_id", id)
		c.Header("X-Correlation-ID", id)
		c.Next()
	}
}

// userID returns the authenticated subject, empty on public routes.
func userID(c *gin.Context) string {
	if claims, ok := auth.ClaimsFromContext(c); ok {
		return claims.Subject
	}
	return ""
}

func correlation(c *gin.Context) string {
	return c.GetString("correlation_id")
}
