package relay

import (
	"context"
	"encoding/json"
)

// relayChannel is the redis pub/sub channel relay nodes share. Each node
// publishes accepted events and replays the other nodes' traffic to its
// own subscribers.
const relayChannel = "relay:events"

// envelope wraps an event with its origin node so a node can ignore its
// own publishes.
type envelope struct {
	Node  string `json:"node"`
	Event *Event `json:"event"`
}

func (m *Manager) publish(ev *Event) {
	raw, err := json.Marshal(envelope{Node: m.nodeID, Event: ev})
	if err != nil {
		m.log.Errorw("failed to marshal relay envelope", "error", err)
		return
	}
	if err := m.rdb.Publish(context.Background(), relayChannel, raw).Err(); err != nil {
		m.log.Errorw("failed to publish event to redis", "event", ev.ID, "error", err)
	}
}

// startPubSubListener runs a goroutine feeding remote events into the hub
// loop.
func (m *Manager) startPubSubListener(ctx context.Context) {
	pubsub := m.rdb.Subscribe(ctx, relayChannel)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					m.log.Errorw("bad relay envelope from redis", "error", err)
					continue
				}
				if env.Node == m.nodeID || env.Event == nil {
					continue
				}
				select {
				case m.pubSubCh <- env.Event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
