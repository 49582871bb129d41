// Package storage is the transactional case store: investigations, tasks,
// evidence, team membership, chat, presence and the append-only activity
// trail. Every multi-row mutation runs inside a single transaction, so a
// partially applied change is never observable.
package storage

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"relaynode/backend/internal/models"
)

var (
	ErrNotFound          = errors.New("storage: not found")
	ErrDuplicate         = errors.New("storage: constraint violation")
	ErrInvalidTransition = errors.New("storage: invalid status transition")
	ErrImmutableHash     = errors.New("storage: evidence hash is immutable")
	ErrValidation        = errors.New("storage: validation failed")
)

// Storage is the case-store contract the handlers and the activity
// recorder program against.
type Storage interface {
	CreateInvestigation(inv *models.Investigation) error
	GetInvestigation(id string) (*models.Investigation, error)
	ListInvestigations() ([]models.Investigation, error)
	UpdateInvestigation(id string, upd InvestigationUpdate) (*models.Investigation, error)
	DeleteInvestigation(id string) error

	CreateTask(task *models.InvestigationTask) error
	GetTask(id string) (*models.InvestigationTask, error)
	ListTasks(investigationID string) ([]models.InvestigationTask, error)
	UpdateTask(id string, upd TaskUpdate) (*models.InvestigationTask, error)
	DeleteTask(id string) error

	CreateEvidence(item *models.EvidenceItem) error
	GetEvidence(id string) (*models.EvidenceItem, error)
	ListEvidence(investigationID string) ([]models.EvidenceItem, error)
	UpdateEvidence(id string, upd EvidenceUpdate) (*models.EvidenceItem, error)
	AppendCustody(id string, rec models.CustodyRecord) (*models.EvidenceItem, error)

	AddTeamMember(member *models.TeamMember) error
	ListTeamMembers(investigationID string) ([]models.TeamMember, error)
	UpdateMemberStatus(investigationID, userID string, status models.MemberStatus) error

	CreateChatMessage(msg *models.ChatMessage) error
	ListChatMessages(investigationID string) ([]models.ChatMessage, error)
	DeleteChatMessage(id string) error

	AppendActivity(act *models.Activity) error
	ListActivities(investigationID string) ([]models.Activity, error)

	UpsertPresence(userID string, status models.PresenceStatus) error
	GetPresence(userID string) (*models.UserPresence, error)
	SweepStalePresence(staleAfter time.Duration) (int64, error)
}

// Service implements Storage over gorm, with an optional redis mirror for
// cheap presence reads.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// InitDB opens the database behind the DSN (postgres DSN or sqlite file
// path) and migrates the schema. TranslateError turns driver-specific
// unique violations into gorm.ErrDuplicatedKey, which the store maps to
// ErrDuplicate.
func InitDB(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.Contains(dsn, "host=") || strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Investigation{},
		&models.InvestigationTask{},
		&models.EvidenceItem{},
		&models.TeamMember{},
		&models.Activity{},
		&models.ChatMessage{},
		&models.UserPresence{},
	); err != nil {
		return nil, err
	}
	return db, nil
}

// translate maps gorm errors to the store's sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
