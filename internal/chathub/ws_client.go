package chathub

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient is one live connection: Connecting -> Joined(room) ->
// Closed. It owns its room binding, decodes inbound frames, invokes the
// domain operations, and pushes the resulting events into the registry.
type WebSocketClient struct {
	sessionID string
	room      string

	Conn     *websocket.Conn
	Registry *Registry
	Ops      *chat.Service
	Send     chan []byte

	closeOnce sync.Once
}

func NewWebSocketClient(room string, conn *websocket.Conn, registry *Registry, ops *chat.Service) *WebSocketClient {
	return &WebSocketClient{
		sessionID: uuid.New().String(),
		room:      room,
		Conn:      conn,
		Registry:  registry,
		Ops:       ops,
		Send:      make(chan []byte, 256),
	}
}

func (c *WebSocketClient) GetSessionID() string          { return c.sessionID }
func (c *WebSocketClient) GetRoom() string               { return c.room }
func (c *WebSocketClient) GetSendChannel() chan<- []byte { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the Send channel, which stops the write pump. The read
// pump stops on its own once the connection is closed.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// readPump processes inbound frames strictly in arrival order. Any
// read error, client-initiated or not, detaches the session from the
// registry before the connection is torn down.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Registry.Leave(c.room, c.sessionID)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from session %s: %v", c.sessionID, err)
			}
			break
		}
		c.handleFrame(data)
	}
}

// handleFrame runs one inbound event end to end: decode, dispatch to
// the matching domain operation, broadcast the result. A failed event
// aborts only itself; the connection stays open and nothing is echoed
// back to the sender.
func (c *WebSocketClient) handleFrame(data []byte) {
	ev, err := models.ParseInboundEvent(data)
	if err != nil {
		if errors.Is(err, models.ErrUnknownEventType) {
			// Forward-compatible no-op for types we don't know yet.
			return
		}
		log.Printf("session %s: dropping event: %v", c.sessionID, err)
		return
	}

	var (
		out   models.ServerEvent
		opErr error
	)
	switch ev := ev.(type) {
	case models.InboundChatMessage:
		out, opErr = c.sendMessage(ev)
	case models.InboundReaction:
		out, opErr = c.toggleReaction(ev)
	case models.InboundTyping:
		out = c.Ops.UserTyping(ev.Sender, ev.IsTyping)
	case models.InboundEdit:
		out, opErr = c.editMessage(ev)
	case models.InboundDelete:
		out, opErr = c.deleteMessage(ev)
	}
	if opErr != nil {
		log.Printf("session %s: %s failed: %v", c.sessionID, frameType(ev), opErr)
		return
	}
	c.Registry.Broadcast(c.room, out)
}

func (c *WebSocketClient) sendMessage(ev models.InboundChatMessage) (models.ServerEvent, error) {
	return c.Ops.SendMessage(ev.Sender, ev.Message, c.room, ev.ParentID)
}

func (c *WebSocketClient) toggleReaction(ev models.InboundReaction) (models.ServerEvent, error) {
	return c.Ops.ToggleReaction(ev.MessageID, ev.Sender, ev.Emoji)
}

func (c *WebSocketClient) editMessage(ev models.InboundEdit) (models.ServerEvent, error) {
	return c.Ops.EditMessage(ev.MessageID, ev.Content, ev.Sender)
}

func (c *WebSocketClient) deleteMessage(ev models.InboundDelete) (models.ServerEvent, error) {
	return c.Ops.DeleteMessage(ev.MessageID, ev.Sender)
}

func frameType(ev models.InboundEvent) models.EventType {
	switch ev.(type) {
	case models.InboundChatMessage:
		return models.EventChatMessage
	case models.InboundReaction:
		return models.EventReaction
	case models.InboundTyping:
		return models.EventTyping
	case models.InboundEdit:
		return models.EventEditMessage
	case models.InboundDelete:
		return models.EventDeleteMessage
	}
	return ""
}

// writePump drains Send into the connection and keeps it alive with
// pings. Each event goes out as its own text frame so clients can
// json-decode frames one at a time.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed by the registry or by Close.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
