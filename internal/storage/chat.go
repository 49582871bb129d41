package storage

import (
	"fmt"

	"relaynode/backend/internal/models"
)

func (s *Service) CreateChatMessage(msg *models.ChatMessage) error {
	if msg.Content == "" && msg.FileAttachment == "" {
		return fmt.Errorf("%w: message needs content or an attachment", ErrValidation)
	}
	var count int64
	if err := s.DB.Model(&models.Investigation{}).Where("id = ?", msg.InvestigationID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return translate(s.DB.Create(msg).Error)
}

// ListChatMessages returns the visible messages for an investigation in
// send order. Soft-deleted messages are hidden, not gone.
func (s *Service) ListChatMessages(investigationID string) ([]models.ChatMessage, error) {
	var list []models.ChatMessage
	if err := s.DB.
		Where("investigation_id = ? AND is_deleted = ?", investigationID, false).
		Order("created_at asc").
		Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// DeleteChatMessage soft-deletes: the content is retained but no longer
// listed.
func (s *Service) DeleteChatMessage(id string) error {
	res := s.DB.Model(&models.ChatMessage{}).Where("id = ?", id).Update("is_deleted", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
