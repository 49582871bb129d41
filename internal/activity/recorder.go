// Package activity turns committed case-store mutations into audit rows.
// The presence side effect lives here on purpose: the original design hid
// it in a database trigger, which made it invisible and untestable. As an
// explicit subscriber it can be observed, asserted on and switched off.
package activity

import (
	"context"

	"go.uber.org/zap"

	"relaynode/backend/internal/models"
	"relaynode/backend/internal/storage"
)

// Mutation describes one committed case-store change.
type Mutation struct {
	InvestigationID string
	UserID          string
	Type            models.ActivityType
	TargetType      string
	TargetID        string
	Description     string
	Details         string
	CorrelationID   string
}

// Listener receives each mutation after the audit row is written. The ops
// notifier hangs off this.
type Listener func(Mutation)

// Recorder appends one immutable Activity row per mutation and then, as a
// visible side effect, upserts the acting user's presence to online.
type Recorder struct {
	store     storage.Storage
	ch        chan Mutation
	listeners []Listener
	log       *zap.SugaredLogger
}

func NewRecorder(store storage.Storage, log *zap.SugaredLogger) *Recorder {
	return &Recorder{
		store: store,
		ch:    make(chan Mutation, 64),
		log:   log,
	}
}

// AddListener registers a callback invoked for every recorded mutation.
// Must be called before Run.
func (r *Recorder) AddListener(l Listener) {
	r.listeners = append(r.listeners, l)
}

// Record publishes a mutation without blocking the caller. When the buffer
// is full the mutation is still recorded synchronously; audit rows must
// not be dropped.
func (r *Recorder) Record(m Mutation) {
	select {
	case r.ch <- m:
	default:
		r.process(m)
	}
}

// Run consumes mutations until the context is cancelled. It drains the
// buffer before returning so shutdown loses nothing.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case m := <-r.ch:
					r.process(m)
				default:
					return
				}
			}
		case m := <-r.ch:
			r.process(m)
		}
	}
}

func (r *Recorder) process(m Mutation) {
	act := &models.Activity{
		InvestigationID: m.InvestigationID,
		UserID:          m.UserID,
		ActivityType:    m.Type,
		TargetType:      m.TargetType,
		TargetID:        m.TargetID,
		Description:     m.Description,
		Details:         m.Details,
		CorrelationID:   m.CorrelationID,
	}
	if err := r.store.AppendActivity(act); err != nil {
		r.log.Errorw("failed to append activity",
			"investigation", m.InvestigationID,
			"correlation_id", m.CorrelationID,
			"error", err,
		)
		return
	}

	// Presence is inferred from activity, never from a heartbeat.
	if err := r.store.UpsertPresence(m.UserID, models.PresenceOnline); err != nil {
		r.log.Errorw("failed to upsert presence", "user", m.UserID, "error", err)
	}

	for _, l := range r.listeners {
		l(m)
	}
}
