package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivityCreated       ActivityType = "created"
	ActivityUpdated       ActivityType = "updated"
	ActivityAssigned      ActivityType = "assigned"
	ActivityCompleted     ActivityType = "completed"
	ActivityComment       ActivityType = "comment"
	ActivityEvidenceAdded ActivityType = "evidence_added"
	ActivityStatusChanged ActivityType = "status_changed"
)

// Activity is one row of the append-only audit trail. Rows are inserted by
// the ActivityRecorder and never updated or deleted. CorrelationID links
// the row back to the request log line that produced it.
type Activity struct {
	ID              string       `gorm:"primaryKey" json:"id"`
	InvestigationID string       `gorm:"type:text;not null;index" json:"investigation_id"`
	UserID          string       `gorm:"type:text;not null;index" json:"user_id"`
	ActivityType    ActivityType `gorm:"type:text;not null" json:"activity_type"`
	TargetType      string       `gorm:"type:text" json:"target_type"`
	TargetID        string       `gorm:"type:text" json:"target_id"`
	Description     string       `gorm:"type:text" json:"description"`
	Details         string       `gorm:"type:text" json:"details,omitempty"`
	CorrelationID   string       `gorm:"type:text" json:"correlation_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
