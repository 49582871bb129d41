package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type InvestigationStatus string

const (
	StatusActive    InvestigationStatus = "active"
	StatusPaused    InvestigationStatus = "paused"
	StatusCompleted InvestigationStatus = "completed"
	StatusArchived  InvestigationStatus = "archived"
)

func (s InvestigationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// investigationTransitions encodes the lifecycle: active and paused flip
// freely, completed may only be reopened to active by an explicit
// transition, archived is terminal.
var investigationTransitions = map[InvestigationStatus][]InvestigationStatus{
	StatusActive:    {StatusPaused, StatusCompleted, StatusArchived},
	StatusPaused:    {StatusActive, StatusCompleted, StatusArchived},
	StatusCompleted: {StatusActive, StatusArchived},
	StatusArchived:  {},
}

// CanTransitionTo reports whether the status change from s to next is allowed.
func (s InvestigationStatus) CanTransitionTo(next InvestigationStatus) bool {
	for _, allowed := range investigationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Investigation is a case file: the root entity that tasks, evidence,
// team membership, chat and activity all hang off.
type Investigation struct {
	ID               string              `gorm:"primaryKey" json:"id"`
	Title            string              `gorm:"type:text;not null" json:"title"`
	Description      string              `gorm:"type:text" json:"description"`
	Status           InvestigationStatus `gorm:"type:text;not null;index" json:"status"`
	Priority         Priority            `gorm:"type:text;not null" json:"priority"`
	CreatedBy        string              `gorm:"type:text;not null" json:"created_by"`
	LeadInvestigator string              `gorm:"type:text" json:"lead_investigator"`
	TeamMembers      pq.StringArray      `gorm:"type:text[]" json:"team_members"`
	Tags             pq.StringArray      `gorm:"type:text[]" json:"tags"`
	Metadata         string              `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// BeforeCreate generates the UUID and applies lifecycle defaults.
func (inv *Investigation) BeforeCreate(tx *gorm.DB) (err error) {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.Status == "" {
		inv.Status = StatusActive
	}
	if inv.Priority == "" {
		inv.Priority = PriorityMedium
	}
	return
}
