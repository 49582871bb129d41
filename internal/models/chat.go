package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is an investigation-scoped team chat message. Deletion is
// soft: IsDeleted hides the message but the content stays for the audit
// trail.
type ChatMessage struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	InvestigationID string    `gorm:"type:text;not null;index" json:"investigation_id"`
	SenderID        string    `gorm:"type:text;not null" json:"sender_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	ReplyTo         *string   `gorm:"type:text;index" json:"reply_to,omitempty"`
	FileAttachment  string    `gorm:"type:text" json:"file_attachment,omitempty"`
	IsDeleted       bool      `gorm:"index" json:"is_deleted"`
	CreatedAt       time.Time `json:"created_at"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
