package chat

import (
	"errors"

	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"
)

// ListRooms returns all rooms for the management surface.
func (s *Service) ListRooms() ([]models.Room, error) {
	return s.Store.ListRooms()
}

// CreateRoom is idempotent on the name: an existing room is returned
// with created=false and keeps its original creator.
func (s *Service) CreateRoom(name, userID string) (*models.Room, bool, error) {
	return s.Store.GetOrCreateRoom(name, userID)
}

// DeleteRoom enforces the creator rule: a room with a recorded creator
// can only be deleted by that creator, while legacy rooms with no
// recorded creator are deletable by anyone.
func (s *Service) DeleteRoom(name, userID string) error {
	room, err := s.Store.GetRoomByName(name)
	if err != nil {
		return err
	}
	if room.CreatedBy != "" && room.CreatedBy != userID {
		return ErrForbidden
	}
	return s.Store.DeleteRoom(name)
}

// RoomHistory returns the room's persisted messages in creation order,
// denormalized into the same shape as broadcast chat_message frames.
// Parent snapshots are joined at read time; a deleted parent simply
// leaves the reply without context.
func (s *Service) RoomHistory(roomName string) ([]models.ChatMessageEvent, error) {
	room, err := s.Store.GetRoomByName(roomName)
	if err != nil {
		return nil, err
	}
	msgs, err := s.Store.ListRoomMessages(room.ID)
	if err != nil {
		return nil, err
	}

	events := make([]models.ChatMessageEvent, 0, len(msgs))
	for i := range msgs {
		msg := &msgs[i]

		var parent *models.Message
		if msg.ParentID != nil {
			parent, err = s.Store.GetMessageByID(*msg.ParentID)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
		}
		reactions, err := s.Store.ListReactions(msg.ID)
		if err != nil {
			return nil, err
		}
		events = append(events, buildChatMessageEvent(msg, parent, reactions))
	}
	return events, nil
}
