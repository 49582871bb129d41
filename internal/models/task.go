package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskBacklog    TaskStatus = "backlog"
	TaskInProgress TaskStatus = "in-progress"
	TaskAnalysis   TaskStatus = "analysis"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskBacklog, TaskInProgress, TaskAnalysis, TaskReview, TaskCompleted:
		return true
	}
	return false
}

// InvestigationTask is a unit of work inside an investigation. Its board
// order is backlog → in-progress → analysis → review → completed, but
// back-transitions are allowed: any valid status may replace any other.
type InvestigationTask struct {
	ID              string         `gorm:"primaryKey" json:"id"`
	InvestigationID string         `gorm:"type:text;not null;index" json:"investigation_id"`
	Title           string         `gorm:"type:text;not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	Status          TaskStatus     `gorm:"type:text;not null;index" json:"status"`
	Priority        Priority       `gorm:"type:text;not null" json:"priority"`
	Assignee        string         `gorm:"type:text" json:"assignee"`
	DueDate         *time.Time     `json:"due_date,omitempty"`
	Dependencies    pq.StringArray `gorm:"type:text[]" json:"dependencies"`
	LocationLat     *float64       `json:"location_lat,omitempty"`
	LocationLng     *float64       `json:"location_lng,omitempty"`
	LocationName    string         `gorm:"type:text" json:"location_name,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (t *InvestigationTask) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Status == "" {
		t.Status = TaskBacklog
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return
}
