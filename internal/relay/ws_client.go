package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"relaynode/backend/internal/config"
)

const (
	writeWait      = config.RelayWriteWait
	pongWait       = config.RelayPongWait
	pingPeriod     = config.RelayPingPeriod
	maxMessageSize = config.RelayMaxMessageSize
)

// WebSocketClient implements Client over a gorilla/websocket connection.
type WebSocketClient struct {
	ID      string
	Conn    *websocket.Conn
	Manager *Manager
	SendCh  chan []byte

	closeOnce sync.Once
}

func NewWebSocketClient(id string, conn *websocket.Conn, m *Manager) *WebSocketClient {
	return &WebSocketClient{
		ID:      id,
		Conn:    conn,
		Manager: m,
		SendCh:  make(chan []byte, config.RelaySendQueueSize),
	}
}

func (c *WebSocketClient) ConnID() string { return c.ID }

// Send queues a frame without blocking. A full queue means the consumer is
// too slow; the caller disconnects it.
func (c *WebSocketClient) Send(frame []byte) bool {
	select {
	case c.SendCh <- frame:
		return true
	default:
		return false
	}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the outbound queue, which stops the write pump; the read
// pump stops when the connection closes underneath it.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.SendCh)
	})
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Manager.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Manager.log.Debugw("read error", "conn", c.ID, "error", err)
			}
			break
		}
		c.Manager.IncomingCh <- Inbound{Client: c, Raw: raw}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.SendCh:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Queue closed by the manager; say goodbye on the wire.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One protocol frame per WebSocket message; frames must not be
			// concatenated.
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
