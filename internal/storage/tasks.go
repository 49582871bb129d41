package storage

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"relaynode/backend/internal/models"
)

// TaskUpdate lists the mutable task fields. Nil means leave unchanged.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.Priority
	Assignee     *string
	DueDate      *time.Time
	Dependencies *pq.StringArray
	LocationLat  *float64
	LocationLng  *float64
	LocationName *string
}

func (s *Service) CreateTask(task *models.InvestigationTask) error {
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if task.Status != "" && !task.Status.Valid() {
		return fmt.Errorf("%w: bad status %q", ErrValidation, task.Status)
	}
	// A task must reference a live investigation.
	var count int64
	if err := s.DB.Model(&models.Investigation{}).Where("id = ?", task.InvestigationID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return translate(s.DB.Create(task).Error)
}

func (s *Service) GetTask(id string) (*models.InvestigationTask, error) {
	var task models.InvestigationTask
	if err := s.DB.First(&task, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (s *Service) ListTasks(investigationID string) ([]models.InvestigationTask, error) {
	var list []models.InvestigationTask
	if err := s.DB.Where("investigation_id = ?", investigationID).Order("created_at asc").Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// UpdateTask applies the update in a transaction. Task statuses move along
// backlog → in-progress → analysis → review → completed, but
// back-transitions are permitted: any valid status may replace any other.
func (s *Service) UpdateTask(id string, upd TaskUpdate) (*models.InvestigationTask, error) {
	var task models.InvestigationTask
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return translate(err)
		}

		if upd.Status != nil {
			if !upd.Status.Valid() {
				return fmt.Errorf("%w: bad status %q", ErrValidation, *upd.Status)
			}
			task.Status = *upd.Status
		}
		if upd.Title != nil {
			task.Title = *upd.Title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Priority != nil {
			if !upd.Priority.Valid() {
				return fmt.Errorf("%w: bad priority %q", ErrValidation, *upd.Priority)
			}
			task.Priority = *upd.Priority
		}
		if upd.Assignee != nil {
			task.Assignee = *upd.Assignee
		}
		if upd.DueDate != nil {
			task.DueDate = upd.DueDate
		}
		if upd.Dependencies != nil {
			task.Dependencies = *upd.Dependencies
		}
		if upd.LocationLat != nil {
			task.LocationLat = upd.LocationLat
		}
		if upd.LocationLng != nil {
			task.LocationLng = upd.LocationLng
		}
		if upd.LocationName != nil {
			task.LocationName = *upd.LocationName
		}

		return translate(tx.Save(&task).Error)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes the task and detaches its evidence in the same
// transaction: evidence outlives its originating task, so task_id is set
// to null rather than cascading.
func (s *Service) DeleteTask(id string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.InvestigationTask
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Model(&models.EvidenceItem{}).
			Where("task_id = ?", id).
			Update("task_id", gorm.Expr("NULL")).Error; err != nil {
			return translate(err)
		}
		return translate(tx.Delete(&task).Error)
	})
}
