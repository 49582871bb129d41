package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/models"
)

type addMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

func (h *Handler) ListTeamMembers(c *gin.Context) {
	list, err := h.Store.ListTeamMembers(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": list})
}

func (h *Handler) AddTeamMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id and role are required")
		return
	}

	member := &models.TeamMember{
		UserID:          req.UserID,
		InvestigationID: c.Param("id"),
		Role:            models.TeamRole(req.Role),
	}
	if err := h.Store.AddTeamMember(member); err != nil {
		h.writeError(c, err)
		return
	}

	h.Recorder.Record(activity.Mutation{
		InvestigationID: member.InvestigationID,
		UserID:          userID(c),
		Type:            models.ActivityUpdated,
		TargetType:      "team_member",
		TargetID:        member.ID,
		Description:     fmt.Sprintf("added %s as %s", member.UserID, member.Role),
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusCreated, member)
}
