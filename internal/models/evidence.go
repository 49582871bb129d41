package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvidenceType string

const (
	EvidenceFile       EvidenceType = "file"
	EvidenceScreenshot EvidenceType = "screenshot"
	EvidenceLog        EvidenceType = "log"
	EvidenceNetwork    EvidenceType = "network"
	EvidenceExternal   EvidenceType = "external"
	EvidenceDocument   EvidenceType = "document"
	EvidenceImage      EvidenceType = "image"
	EvidenceVideo      EvidenceType = "video"
	EvidenceAudio      EvidenceType = "audio"
)

func (t EvidenceType) Valid() bool {
	switch t {
	case EvidenceFile, EvidenceScreenshot, EvidenceLog, EvidenceNetwork,
		EvidenceExternal, EvidenceDocument, EvidenceImage, EvidenceVideo, EvidenceAudio:
		return true
	}
	return false
}

// CustodyRecord is one entry of an evidence item's chain of custody.
type CustodyRecord struct {
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// EvidenceItem references content held by the ContentStore. HashSHA256 is
// the integrity anchor: bytes retrieved for this item must hash to it, and
// the value is immutable once set. ChainOfCustody is an append-only JSON
// array of CustodyRecord.
type EvidenceItem struct {
	ID              string       `gorm:"primaryKey" json:"id"`
	InvestigationID string       `gorm:"type:text;not null;index" json:"investigation_id"`
	TaskID          *string      `gorm:"type:text;index" json:"task_id,omitempty"`
	Title           string       `gorm:"type:text;not null" json:"title"`
	Description     string       `gorm:"type:text" json:"description"`
	Type            EvidenceType `gorm:"type:text;not null" json:"type"`
	HashSHA256      string       `gorm:"type:text;not null" json:"hash_sha256"`
	ContentID       string       `gorm:"type:text" json:"content_id,omitempty"`
	ChainOfCustody  string       `gorm:"type:text" json:"chain_of_custody"`
	IsEncrypted     bool         `json:"is_encrypted"`
	EncryptionKeyID string       `gorm:"type:text" json:"encryption_key_id,omitempty"`
	CollectedBy     string       `gorm:"type:text" json:"collected_by"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (e *EvidenceItem) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Type == "" {
		e.Type = EvidenceFile
	}
	if e.ChainOfCustody == "" {
		e.ChainOfCustody = "[]"
	}
	return
}

// Custody decodes the chain-of-custody column. An item that has never
// been persisted has no column default yet; an empty chain is an empty
// chain, not an error.
func (e *EvidenceItem) Custody() ([]CustodyRecord, error) {
	if e.ChainOfCustody == "" {
		return nil, nil
	}
	var records []CustodyRecord
	if err := json.Unmarshal([]byte(e.ChainOfCustody), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AppendCustody adds a record to the chain. The chain is never rewritten,
// only extended.
func (e *EvidenceItem) AppendCustody(rec CustodyRecord) error {
	records, err := e.Custody()
	if err != nil {
		return err
	}
	records = append(records, rec)
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	e.ChainOfCustody = string(raw)
	return nil
}
