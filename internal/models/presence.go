package models

import "time"

type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceAway    PresenceStatus = "away"
	PresenceBusy    PresenceStatus = "busy"
	PresenceOffline PresenceStatus = "offline"
)

// UserPresence is inferred from activity, not from a heartbeat: every
// recorded activity upserts the user's row to online. A separate sweep
// marks stale rows offline.
type UserPresence struct {
	UserID   string         `gorm:"primaryKey" json:"user_id"`
	Status   PresenceStatus `gorm:"type:text;not null" json:"status"`
	LastSeen time.Time      `json:"last_seen"`
}
