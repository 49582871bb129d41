package relay

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"relaynode/backend/internal/config"
)

// Inbound is one raw frame read off a connection, tagged with its origin.
type Inbound struct {
	Client Client
	Raw    []byte
}

// session is the per-connection state the Manager tracks: live
// subscriptions and the malformed-frame counter for abuse containment.
type session struct {
	client    Client
	subs      map[string][]Filter
	malformed int
}

// Manager is the relay hub. A single goroutine owns all session state, so
// per-connection arrival order is preserved without locks; fan-out happens
// through each client's bounded queue and a slow consumer is dropped
// instead of blocking the loop.
type Manager struct {
	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan Inbound

	sessions map[string]*session
	store    *EventStore

	rdb      *redis.Client
	nodeID   string
	pubSubCh chan *Event

	log *zap.SugaredLogger
}

func NewManager(store *EventStore, rdb *redis.Client, nodeID string, log *zap.SugaredLogger) *Manager {
	return &Manager{
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan Inbound),
		sessions:     make(map[string]*session),
		store:        store,
		rdb:          rdb,
		nodeID:       nodeID,
		pubSubCh:     make(chan *Event),
		log:          log,
	}
}

// Store exposes the event store for replay inspection in tests and status
// reporting.
func (m *Manager) Store() *EventStore { return m.store }

// Run is the hub dispatcher. It owns sessions exclusively; everything
// reaches it through channels.
func (m *Manager) Run(ctx context.Context) {
	if m.rdb != nil {
		m.startPubSubListener(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for id := range m.sessions {
				m.dropSession(id)
			}
			return

		case client := <-m.RegisterCh:
			m.sessions[client.ConnID()] = &session{
				client: client,
				subs:   make(map[string][]Filter),
			}
			m.log.Debugw("client registered", "conn", client.ConnID())

		case client := <-m.UnregisterCh:
			// Closing a connection deregisters its subscriptions with it.
			if _, ok := m.sessions[client.ConnID()]; ok {
				m.dropSession(client.ConnID())
			}

		case in := <-m.IncomingCh:
			m.handleInbound(in)

		case ev := <-m.pubSubCh:
			// Event accepted by another node; store for replay and fan out,
			// no OK owed to anyone here.
			m.store.Insert(ev)
			m.fanOut(ev)
		}
	}
}

func (m *Manager) handleInbound(in Inbound) {
	sess, ok := m.sessions[in.Client.ConnID()]
	if !ok {
		return
	}

	msg, err := ParseClientMessage(in.Raw)
	if err != nil {
		m.handleMalformed(sess, err)
		return
	}

	switch msg.Type {
	case "EVENT":
		m.handleEvent(sess, msg.Event)
	case "REQ":
		m.handleReq(sess, msg.SubID, msg.Filters)
	case "CLOSE":
		delete(sess.subs, msg.SubID)
	case "COUNT", "AUTH":
		m.send(sess, NoticeFrame("unsupported: "+msg.Type))
	}
}

func (m *Manager) handleEvent(sess *session, ev *Event) {
	if err := ev.Verify(); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEventHash):
			m.send(sess, OKFrame(ev.ID, false, "invalid:hash-mismatch"))
		case errors.Is(err, ErrInvalidEventSignature):
			m.send(sess, OKFrame(ev.ID, false, "invalid:bad-signature"))
		default:
			m.handleMalformed(sess, err)
		}
		return
	}

	if !ev.Ephemeral() {
		if inserted := m.store.Insert(ev); !inserted {
			// Idempotent re-publish: acknowledge, do not fan out again.
			m.send(sess, OKFrame(ev.ID, true, "duplicate"))
			return
		}
	}

	m.send(sess, OKFrame(ev.ID, true, ""))
	m.fanOut(ev)

	if m.rdb != nil {
		m.publish(ev)
	}
}

func (m *Manager) handleReq(sess *session, subID string, filters []Filter) {
	sess.subs[subID] = filters

	// Replay stored events first, close the historical window with EOSE,
	// then the subscription stays live for future events.
	for _, ev := range m.store.Query(filters, replayLimit(filters)) {
		if !m.send(sess, EventFrame(subID, ev)) {
			return
		}
	}
	m.send(sess, EOSEFrame(subID))
}

func (m *Manager) handleMalformed(sess *session, err error) {
	sess.malformed++
	m.send(sess, NoticeFrame(err.Error()))
	if sess.malformed > config.RelayMalformedLimit {
		m.log.Warnw("dropping abusive connection", "conn", sess.client.ConnID(), "malformed", sess.malformed)
		m.dropSession(sess.client.ConnID())
	}
}

// fanOut delivers the event to every open subscription whose filters
// match. Per-connection order is preserved; no ordering is promised across
// subscribers.
func (m *Manager) fanOut(ev *Event) {
	for id, sess := range m.sessions {
		for subID, filters := range sess.subs {
			if !MatchesAny(filters, ev) {
				continue
			}
			if !sess.client.Send(EventFrame(subID, ev)) {
				m.log.Warnw("slow consumer dropped", "conn", id)
				m.dropSession(id)
				break
			}
		}
	}
}

// send queues a frame on one session, dropping the session if its queue is
// full.
func (m *Manager) send(sess *session, frame []byte) bool {
	if !sess.client.Send(frame) {
		m.dropSession(sess.client.ConnID())
		return false
	}
	return true
}

func (m *Manager) dropSession(id string) {
	sess, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)
	sess.client.Close()
}

// replayLimit picks the strictest positive filter limit, capped by the
// configured replay ceiling.
func replayLimit(filters []Filter) int {
	limit := config.RelayDefaultReplayCap
	for _, f := range filters {
		if f.Limit > 0 && f.Limit < limit {
			limit = f.Limit
		}
	}
	return limit
}
