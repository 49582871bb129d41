package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamRole string

const (
	RoleLead         TeamRole = "lead"
	RoleInvestigator TeamRole = "investigator"
	RoleAnalyst      TeamRole = "analyst"
	RoleSpecialist   TeamRole = "specialist"
	RoleObserver     TeamRole = "observer"
)

func (r TeamRole) Valid() bool {
	switch r {
	case RoleLead, RoleInvestigator, RoleAnalyst, RoleSpecialist, RoleObserver:
		return true
	}
	return false
}

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
	MemberRemoved  MemberStatus = "removed"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case MemberActive, MemberInactive, MemberRemoved:
		return true
	}
	return false
}

// TeamMember ties a user to an investigation with a role. The
// (user_id, investigation_id) pair is unique.
type TeamMember struct {
	ID              string       `gorm:"primaryKey" json:"id"`
	UserID          string       `gorm:"type:text;not null;uniqueIndex:idx_member_pair" json:"user_id"`
	InvestigationID string       `gorm:"type:text;not null;uniqueIndex:idx_member_pair;index" json:"investigation_id"`
	Role            TeamRole     `gorm:"type:text;not null" json:"role"`
	Status          MemberStatus `gorm:"type:text;not null" json:"status"`
	JoinedAt        time.Time    `json:"joined_at"`
}

func (m *TeamMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Status == "" {
		m.Status = MemberActive
	}
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	return
}
