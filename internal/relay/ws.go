package relay

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The relay speaks to arbitrary clients; origin checks are not part of
	// the protocol.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWS upgrades the HTTP connection and registers it with the hub. The
// relay listens on its own port and is independent of the JWT-gated API.
func (m *Manager) HandleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := NewWebSocketClient(uuid.New().String(), conn, m)
	m.RegisterCh <- client
	client.Run()
}
