package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"relaynode/backend/internal/activity"
	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

type createTaskRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	Assignee     string     `json:"assignee"`
	DueDate      *time.Time `json:"due_date"`
	Dependencies []string   `json:"dependencies"`
	LocationLat  *float64   `json:"location_lat"`
	LocationLng  *float64   `json:"location_lng"`
	LocationName string     `json:"location_name"`
}

type updateTaskRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Status       *string    `json:"status"`
	Priority     *string    `json:"priority"`
	Assignee     *string    `json:"assignee"`
	DueDate      *time.Time `json:"due_date"`
	Dependencies *[]string  `json:"dependencies"`
	LocationLat  *float64   `json:"location_lat"`
	LocationLng  *float64   `json:"location_lng"`
	LocationName *string    `json:"location_name"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	list, err := h.Store.ListTasks(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list})
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title is required")
		return
	}

	task := &models.InvestigationTask{
		InvestigationID: c.Param("id"),
		Title:           req.Title,
		Description:     req.Description,
		Priority:        models.Priority(req.Priority),
		Assignee:        req.Assignee,
		DueDate:         req.DueDate,
		Dependencies:    pq.StringArray(req.Dependencies),
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		LocationName:    req.LocationName,
	}
	if err := h.Store.CreateTask(task); err != nil {
		h.writeError(c, err)
		return
	}

	mutType := models.ActivityCreated
	if task.Assignee != "" {
		mutType = models.ActivityAssigned
	}
	h.Recorder.Record(activity.Mutation{
		InvestigationID: task.InvestigationID,
		UserID:          userID(c),
		Type:            mutType,
		TargetType:      "task",
		TargetID:        task.ID,
		Description:     fmt.Sprintf("created task %q", task.Title),
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed body")
		return
	}

	upd := storage.TaskUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Assignee:     req.Assignee,
		DueDate:      req.DueDate,
		LocationLat:  req.LocationLat,
		LocationLng:  req.LocationLng,
		LocationName: req.LocationName,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		upd.Status = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		upd.Priority = &priority
	}
	if req.Dependencies != nil {
		deps := pq.StringArray(*req.Dependencies)
		upd.Dependencies = &deps
	}

	task, err := h.Store.UpdateTask(c.Param("taskId"), upd)
	if err != nil {
		h.writeError(c, err)
		return
	}

	mutType := models.ActivityUpdated
	description := fmt.Sprintf("updated task %q", task.Title)
	switch {
	case upd.Status != nil && *upd.Status == models.TaskCompleted:
		mutType = models.ActivityCompleted
		description = fmt.Sprintf("completed task %q", task.Title)
	case upd.Status != nil:
		mutType = models.ActivityStatusChanged
		description = fmt.Sprintf("task %q moved to %s", task.Title, task.Status)
	case upd.Assignee != nil:
		mutType = models.ActivityAssigned
		description = fmt.Sprintf("task %q assigned to %s", task.Title, task.Assignee)
	}
	h.Recorder.Record(activity.Mutation{
		InvestigationID: task.InvestigationID,
		UserID:          userID(c),
		Type:            mutType,
		TargetType:      "task",
		TargetID:        task.ID,
		Description:     description,
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	taskID := c.Param("taskId")
	task, err := h.Store.GetTask(taskID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.Store.DeleteTask(taskID); err != nil {
		h.writeError(c, err)
		return
	}

	h.Recorder.Record(activity.Mutation{
		InvestigationID: task.InvestigationID,
		UserID:          userID(c),
		Type:            models.ActivityUpdated,
		TargetType:      "task",
		TargetID:        taskID,
		Description:     fmt.Sprintf("deleted task %q", task.Title),
		CorrelationID:   correlation(c),
	})

	c.JSON(http.StatusOK, gin.H{"deleted": taskID})
}
