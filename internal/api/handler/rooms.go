package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/storage"
)

type createRoomRequest struct {
	Name   string `json:"name"`
	UserID string `json:"user_id"`
}

// ListRooms returns all rooms as {id, name, created_by}.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Ops.ListRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}
	out := make([]gin.H, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, gin.H{"id": r.ID, "name": r.Name, "created_by": r.CreatedBy})
	}
	c.JSON(http.StatusOK, out)
}

// CreateRoom creates a room, or returns the existing one with
// created=false. The optional user_id is recorded as the creator only
// on actual creation.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room name is required"})
		return
	}

	room, created, err := h.Ops.CreateRoom(req.Name, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         room.ID,
		"name":       room.Name,
		"created_by": room.CreatedBy,
		"created":    created,
	})
}

// DeleteRoom deletes the named room. 403 when the room records a
// creator and the caller's user_id doesn't match; 404 when absent.
func (h *Handler) DeleteRoom(c *gin.Context) {
	name := c.Param("name")
	userID := c.Query("user_id")

	err := h.Ops.DeleteRoom(name, userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	case errors.Is(err, chat.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the room creator can delete this room"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete room"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "room deleted successfully"})
	}
}

// RoomMessages returns the room's message history in the broadcast
// chat_message shape.
func (h *Handler) RoomMessages(c *gin.Context) {
	name := c.Param("name")

	history, err := h.Ops.RoomHistory(name)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}
	c.JSON(http.StatusOK, history)
}
