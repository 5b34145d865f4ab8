package chat

import (
	"fmt"
	"io"

	"roomchat/backend/internal/config"
	"roomchat/backend/internal/models"
)

// FileUpload is the transport-agnostic view of one multipart upload.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadFile validates the attachment, stores the blob, and persists a
// message carrying the file metadata plus optional caption text. The
// returned event is both the HTTP response body and the broadcast
// frame.
func (s *Service) UploadFile(sender, roomName string, upload FileUpload, parentID *uint, content string) (models.ChatMessageEvent, error) {
	kind, limit, err := resolveFileKind(upload.ContentType)
	if err != nil {
		return models.ChatMessageEvent{}, err
	}
	// The cap depends on the kind, so it is only checked once the type
	// has resolved.
	if upload.Size > limit {
		return models.ChatMessageEvent{}, models.NewValidationError(
			fmt.Sprintf("%s uploads are limited to %d MiB", kind, limit>>20))
	}

	fileURL, err := s.Store.SaveFile(upload.Name, upload.Data)
	if err != nil {
		return models.ChatMessageEvent{}, err
	}

	room, _, err := s.Store.GetOrCreateRoom(roomName, "")
	if err != nil {
		return models.ChatMessageEvent{}, err
	}
	parent, err := s.resolveParent(parentID, room.ID)
	if err != nil {
		return models.ChatMessageEvent{}, err
	}

	msg := &models.Message{
		RoomID:   room.ID,
		Sender:   sender,
		Content:  content,
		FileURL:  fileURL,
		FileType: kind,
		FileName: upload.Name,
	}
	if parent != nil {
		msg.ParentID = parentID
	}
	if err := s.Store.CreateMessage(msg); err != nil {
		return models.ChatMessageEvent{}, err
	}
	return buildChatMessageEvent(msg, parent, nil), nil
}

func resolveFileKind(contentType string) (string, int64, error) {
	switch {
	case config.ImageContentTypes[contentType]:
		return "image", config.MaxImageUploadSize, nil
	case config.VideoContentTypes[contentType]:
		return "video", config.MaxVideoUploadSize, nil
	}
	return "", 0, models.NewValidationError(
		fmt.Sprintf("unsupported file type %q: allowed images are jpeg/png/gif/webp and videos mp4/webm/quicktime", contentType))
}
