package storage

import (
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"relaynode/backend/internal/models"
)

// InvestigationUpdate lists the mutable investigation fields. Nil means
// leave unchanged.
type InvestigationUpdate struct {
	Title            *string
	Description      *string
	Status           *models.InvestigationStatus
	Priority         *models.Priority
	LeadInvestigator *string
	TeamMembers      *pq.StringArray
	Tags             *pq.StringArray
	Metadata         *string

	// Force skips the status lifecycle guard. Reserved for the admin CLI.
	Force bool
}

func (s *Service) CreateInvestigation(inv *models.Investigation) error {
	if inv.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if inv.CreatedBy == "" {
		return fmt.Errorf("%w: created_by is required", ErrValidation)
	}
	if inv.Status != "" && !inv.Status.Valid() {
		return fmt.Errorf("%w: bad status %q", ErrValidation, inv.Status)
	}
	if inv.Priority != "" && !inv.Priority.Valid() {
		return fmt.Errorf("%w: bad priority %q", ErrValidation, inv.Priority)
	}
	return translate(s.DB.Create(inv).Error)
}

func (s *Service) GetInvestigation(id string) (*models.Investigation, error) {
	var inv models.Investigation
	if err := s.DB.First(&inv, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (s *Service) ListInvestigations() ([]models.Investigation, error) {
	var list []models.Investigation
	if err := s.DB.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// UpdateInvestigation applies the update inside a transaction, guarding
// the status lifecycle: active ⇄ paused → completed → archived, completed
// reopens only explicitly, archived is terminal.
func (s *Service) UpdateInvestigation(id string, upd InvestigationUpdate) (*models.Investigation, error) {
	var inv models.Investigation
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		if upd.Status != nil && *upd.Status != inv.Status {
			if !upd.Status.Valid() {
				return fmt.Errorf("%w: bad status %q", ErrValidation, *upd.Status)
			}
			if !upd.Force && !inv.Status.CanTransitionTo(*upd.Status) {
				return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, inv.Status, *upd.Status)
			}
			inv.Status = *upd.Status
		}
		if upd.Title != nil {
			inv.Title = *upd.Title
		}
		if upd.Description != nil {
			inv.Description = *upd.Description
		}
		if upd.Priority != nil {
			if !upd.Priority.Valid() {
				return fmt.Errorf("%w: bad priority %q", ErrValidation, *upd.Priority)
			}
			inv.Priority = *upd.Priority
		}
		if upd.LeadInvestigator != nil {
			inv.LeadInvestigator = *upd.LeadInvestigator
		}
		if upd.TeamMembers != nil {
			inv.TeamMembers = *upd.TeamMembers
		}
		if upd.Tags != nil {
			inv.Tags = *upd.Tags
		}
		if upd.Metadata != nil {
			inv.Metadata = *upd.Metadata
		}

		return translate(tx.Save(&inv).Error)
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvestigation removes the investigation and cascades to its tasks,
// evidence, team membership and chat in one transaction. Activity rows are
// the audit trail and are never deleted.
func (s *Service) DeleteInvestigation(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Investigation
		if err := tx.First(&inv, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("investigation_id = ?", id).Delete(&models.EvidenceItem{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("investigation_id = ?", id).Delete(&models.InvestigationTask{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("investigation_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("investigation_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&inv).Error)
	})
}
