package storage

import (
	"fmt"

	"relaynode/backend/internal/models"
)

// AppendActivity inserts one audit row. There is deliberately no update or
// delete path for activities anywhere in this package: the trail is
// append-only.
func (s *Service) AppendActivity(act *models.Activity) error {
	if act.InvestigationID == "" || act.UserID == "" || act.ActivityType == "" {
		return fmt.Errorf("%w: investigation_id, user_id and activity_type are required", ErrValidation)
	}
	return translate(s.DB.Create(act).Error)
}

func (s *Service) ListActivities(investigationID string) ([]models.Activity, error) {
	var list []models.Activity
	if err := s.DB.Where("investigation_id = ?", investigationID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}
