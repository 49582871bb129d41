package storage

import (
	"fmt"

	"relaynode/backend/internal/models"
)

// AddTeamMember records membership. The (user_id, investigation_id) pair
// is unique; a second add for the same pair surfaces as ErrDuplicate.
func (s *Service) AddTeamMember(member *models.TeamMember) error {
	if member.UserID == "" || member.InvestigationID == "" {
		return fmt.Errorf("%w: user_id and investigation_id are required", ErrValidation)
	}
	if member.Role != "" && !member.Role.Valid() {
		return fmt.Errorf("%w: bad role %q", ErrValidation, member.Role)
	}
	if member.Status != "" && !member.Status.Valid() {
		return fmt.Errorf("%w: bad status %q", ErrValidation, member.Status)
	}
	var count int64
	if err := s.DB.Model(&models.Investigation{}).Where("id = ?", member.InvestigationID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return translate(s.DB.Create(member).Error)
}

func (s *Service) ListTeamMembers(investigationID string) ([]models.TeamMember, error) {
	var list []models.TeamMember
	if err := s.DB.Where("investigation_id = ?", investigationID).Order("joined_at asc").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

func (s *Service) UpdateMemberStatus(investigationID, userID string, status models.MemberStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: bad status %q", ErrValidation, status)
	}
	res := s.DB.Model(&models.TeamMember{}).
		Where("investigation_id = ? AND user_id = ?", investigationID, userID).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
