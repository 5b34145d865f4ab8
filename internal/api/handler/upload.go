package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/models"
)

// UploadFile accepts a multipart attachment (fields: file, sender,
// room_name, parent_id?, content?), creates the message, broadcasts it
// to the room, and returns the same denormalized payload to the
// caller.
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	sender := c.PostForm("sender")
	roomName := c.PostForm("room_name")
	if sender == "" || roomName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sender and room_name are required"})
		return
	}

	var parentID *uint
	if raw := c.PostForm("parent_id"); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent_id must be numeric"})
			return
		}
		id := uint(id64)
		parentID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	upload := chat.FileUpload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Data:        src,
	}
	event, err := h.Ops.UploadFile(sender, roomName, upload, parentID, c.PostForm("content"))
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason})
			return
		}
		log.Printf("ERROR: Upload to room %q failed: %v", roomName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	h.Registry.Broadcast(roomName, event)
	c.JSON(http.StatusOK, event)
}
