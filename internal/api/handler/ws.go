package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"roomchat/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and binds the new session to
// the room named in the path. The session stays in that room until the
// connection closes; switching rooms means a new connection.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	roomName := c.Param("room")
	if roomName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room name is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		log.Printf("error upgrading connection for room %q: %v", roomName, err)
		return
	}

	client := chathub.NewWebSocketClient(roomName, conn, h.Registry, h.Ops)
	h.Registry.Join(roomName, client)
	client.Run()
}
