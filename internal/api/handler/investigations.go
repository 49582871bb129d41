package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

type createInvestigationRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	Priority         string   `json:"priority"`
	LeadInvestigator string   `json:"lead_investigator"`
	TeamMembers      []string `json:"team_members"`
	Tags             []string `json:"tags"`
	Metadata         string   `json:"metadata"`
}

type updateInvestigationRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Status           *string   `json:"status"`
	Priority         *string   `json:"priority"`
	LeadInvestigator *string   `json:"lead_investigator"`
	TeamMembers      *[]string `json:"team_members"`
	Tags             *[]string `json:"tags"`
	Metadata         *string   `json:"metadata"`
}

func (h *Handler) ListInvestigations(c *gin.Context) {
	list, err := h.Store.ListInvestigations()
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"investigations": list})
}

func (h *Handler) CreateInvestigation(c *gin.Context) {
	var req createInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title is required")
		return
	}

	inv := &models.Investigation{
		Title:            req.Title,
		Description:      req.Description,
		Priority:         models.Priority(req.Priority),
		CreatedBy:        userID(c),
		LeadInvestigator: req.LeadInvestigator,
		TeamMembers:      pq.StringArray(req.TeamMembers),
		Tags:             pq.StringArray(req.Tags),
		Metadata:         req.Metadata,
	}
	if err := h.Store.CreateInvestigation(inv); err != nil {
		h.writeError(c, err)
		return
	}

	h.Recorder.Record(activity.Mutation{
		InvestigationID: inv.ID,
		UserID:          userID(c),
		Type:            models.ActivityCreated,
		TargetType:      "investigation",
		TargetID:        inv.ID,
		Description:     fmt.Sprintf("created investigation %q", inv.Title),
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) GetInvestigation(c *gin.Context) {
	inv, err := h.Store.GetInvestigation(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) UpdateInvestigation(c *gin.Context) {
	var req updateInvestigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}

	upd := storage.InvestigationUpdate{
		Title:            req.Title,
		Description:      req.Description,
		LeadInvestigator: req.LeadInvestigator,
		Metadata:         req.Metadata,
	}
	if req.Status != nil {
		status := models.InvestigationStatus(*req.Status)
		upd.Status = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		upd.Priority = &priority
	}
	if req.TeamMembers != nil {
		members := pq.StringArray(*req.TeamMembers)
		upd.TeamMembers = &members
	}
	if req.Tags != nil {
		tags := pq.StringArray(*req.Tags)
		upd.Tags = &tags
	}

	before, err := h.Store.GetInvestigation(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	inv, err := h.Store.UpdateInvestigation(c.Param("id"), upd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	mutType := models.ActivityUpdated
	description := fmt.Sprintf("updated investigation %q", inv.Title)
	if upd.Status != nil && before.Status != inv.Status {
		mutType = models.ActivityStatusChanged
		description = fmt.Sprintf("status changed %s → %s", before.Status, inv.Status)
	}
	h.Recorder.Record(activity.Mutation{
		InvestigationID: inv.ID,
		UserID:          userID(c),
		Type:            mutType,
		TargetType:      "investigation",
		TargetID:        inv.ID,
		Description:     description,
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvestigation(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.DeleteInvestigation(id); err != nil {
		h.writeError(c, err)
		return
	}

	h.Recorder.Record(activity.Mutation{
		InvestigationID: id,
		UserID:          userID(c),
		Type:            models.ActivityUpdated,
		TargetType:      "investigation",
		TargetID:        id,
		Description:     "deleted investigation",
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) ListActivities(c *gin.Context) {
	list, err := h.Store.ListActivities(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": list})
}
