package storage

import (
	"fmt"

	"gorm.io/gorm"

	"relaynode/backend/internal/models"
)

// EvidenceUpdate lists the mutable evidence fields. HashSHA256 may be
// supplied but only to restate the existing value: the hash is the
// integrity anchor and is immutable once set.
type EvidenceUpdate struct {
	Title       *string
	Description *string
	Type        *models.EvidenceType
	TaskID      *string
	HashSHA256  *string
}

func (s *Service) CreateEvidence(item *models.EvidenceItem) error {
	if item.HashSHA256 == "" {
		return fmt.Errorf("%w: hash_sha256 is required", ErrValidation)
	}
	if item.Type != "" && !item.Type.Valid() {
		return fmt.Errorf("%w: bad evidence type %q", ErrValidation, item.Type)
	}
	var count int64
	if err := s.DB.Model(&models.Investigation{}).Where("id = ?", item.InvestigationID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return translate(s.DB.Create(item).Error)
}

func (s *Service) GetEvidence(id string) (*models.EvidenceItem, error) {
	var item models.EvidenceItem
	if err := s.DB.First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (s *Service) ListEvidence(investigationID string) ([]models.EvidenceItem, error) {
	var list []models.EvidenceItem
	if err := s.DB.Where("investigation_id = ?", investigationID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *Service) UpdateEvidence(id string, upd EvidenceUpdate) (*models.EvidenceItem, error) {
	var item models.EvidenceItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if upd.HashSHA256 != nil && *upd.HashSHA256 != item.HashSHA256 {
			return ErrImmutableHash
		}
		if upd.Title != nil {
			item.Title = *upd.Title
		}
		if upd.Description != nil {
			item.Description = *upd.Description
		}
		if upd.Type != nil {
			if !upd.Type.Valid() {
				return fmt.Errorf("%w: bad evidence type %q", ErrValidation, *upd.Type)
			}
			item.Type = *upd.Type
		}
		if upd.TaskID != nil {
			item.TaskID = upd.TaskID
		}
		return translate(tx.Save(&item).Error)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AppendCustody extends the evidence item's chain of custody. The chain is
// append-only: existing entries are never rewritten.
func (s *Service) AppendCustody(id string, rec models.CustodyRecord) (*models.EvidenceItem, error) {
	var item models.EvidenceItem
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := item.AppendCustody(rec); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return translate(tx.Model(&item).Update("chain_of_custody", item.ChainOfCustody).Error)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
