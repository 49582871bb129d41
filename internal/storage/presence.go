package storage

import (
	"time"

	"gorm.io/gorm/clause"

	"relaynode/backend/internal/models"
)

// UpsertPresence sets the user online (or whatever status is given) with
// last_seen now. A redis mirror key is refreshed when redis is wired, so
// liveness checks never have to touch the database.
func (s *Service) UpsertPresence(userID string, status models.PresenceStatus) error {
	now := time.Now().UTC()
	row := models.UserPresence{UserID: userID, Status: status, LastSeen: now}

	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "last_seen"}),
	}).Create(&row).Error
	if err != nil {
		return translate(err)
	}

	if s.Redis != nil {
		key := "presence:" + userID
		if err := s.Redis.Set(s.Ctx, key, string(status), 30*time.Minute).Err(); err != nil {
			// The table is the source of truth; a stale mirror is tolerable.
			return nil
		}
	}
	return nil
}

func (s *Service) GetPresence(userID string) (*models.UserPresence, error) {
	var row models.UserPresence
	if err := s.DB.First(&row, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// SweepStalePresence marks users with no recorded activity inside the
// window as offline and returns how many rows changed. Presence is
// inferred from activity, so this coarse sweep is the only way a silent
// user ever goes offline.
func (s *Service) SweepStalePresence(staleAfter time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)
	res := s.DB.Model(&models.UserPresence{}).
		Where("last_seen < ? AND status <> ?", cutoff, models.PresenceOffline).
		Update("status", models.PresenceOffline)
	return res.RowsAffected, translate(res.Error)
}
