package chat

import (
	"errors"
	"time"

	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"
)

// ErrForbidden is returned when a caller tries to delete a room whose
// recorded creator is someone else. Rooms with no recorded creator are
// deletable by anyone.
var ErrForbidden = errors.New("forbidden")

// Service holds the domain operations. Each operation validates its
// input, mutates storage, and returns a broadcast-ready event; an
// error means nothing was broadcast-worthy.
type Service struct {
	Store storage.Storage
}

func NewService(store storage.Storage) *Service {
	return &Service{Store: store}
}

// SendMessage persists a message in the named room, creating the room
// on first use. A parentID that doesn't resolve, or that points into a
// different room, is dropped silently: the message is still created,
// just without reply context.
func (s *Service) SendMessage(sender, content, roomName string, parentID *uint) (models.ChatMessageEvent, error) {
	room, _, err := s.Store.GetOrCreateRoom(roomName, "")
	if err != nil {
		return models.ChatMessageEvent{}, err
	}

	parent, err := s.resolveParent(parentID, room.ID)
	if err != nil {
		return models.ChatMessageEvent{}, err
	}

	msg := &models.Message{
		RoomID:  room.ID,
		Sender:  sender,
		Content: content,
	}
	if parent != nil {
		msg.ParentID = parentID
	}
	if err := s.Store.CreateMessage(msg); err != nil {
		return models.ChatMessageEvent{}, err
	}
	return buildChatMessageEvent(msg, parent, nil), nil
}

// ToggleReaction flips the (message, sender, emoji) reaction and
// reports the action taken. A missing message is an error and nothing
// is broadcast.
func (s *Service) ToggleReaction(messageID uint, sender, emoji string) (models.ReactionUpdateEvent, error) {
	if _, err := s.Store.GetMessageByID(messageID); err != nil {
		return models.ReactionUpdateEvent{}, err
	}
	action, err := s.Store.ToggleReaction(messageID, sender, emoji)
	if err != nil {
		return models.ReactionUpdateEvent{}, err
	}
	return models.ReactionUpdateEvent{
		Type:      models.EventReactionUpdate,
		MessageID: messageID,
		Sender:    sender,
		Emoji:     emoji,
		Action:    action,
	}, nil
}

// EditMessage rewrites the content of the sender's own message. The
// lookup filters on id and sender together, so editing someone else's
// message fails exactly like editing a message that doesn't exist.
func (s *Service) EditMessage(messageID uint, content, sender string) (models.MessageEditEvent, error) {
	msg, err := s.Store.GetMessageBySender(messageID, sender)
	if err != nil {
		return models.MessageEditEvent{}, err
	}
	msg.Content = content
	msg.IsEdited = true
	if err := s.Store.SaveMessage(msg); err != nil {
		return models.MessageEditEvent{}, err
	}
	return models.MessageEditEvent{
		Type:      models.EventMessageEdit,
		MessageID: messageID,
		Content:   content,
	}, nil
}

// DeleteMessage removes the sender's own message, with the same
// ownership-folded lookup as EditMessage.
func (s *Service) DeleteMessage(messageID uint, sender string) (models.MessageDeleteEvent, error) {
	msg, err := s.Store.GetMessageBySender(messageID, sender)
	if err != nil {
		return models.MessageDeleteEvent{}, err
	}
	if err := s.Store.DeleteMessage(msg); err != nil {
		return models.MessageDeleteEvent{}, err
	}
	return models.MessageDeleteEvent{
		Type:      models.EventMessageDelete,
		MessageID: messageID,
	}, nil
}

// UserTyping is a pure pass-through: nothing is persisted and the
// event always broadcasts.
func (s *Service) UserTyping(sender string, isTyping bool) models.UserTypingEvent {
	return models.UserTypingEvent{
		Type:     models.EventUserTyping,
		Sender:   sender,
		IsTyping: isTyping,
	}
}

// resolveParent loads the reply target. Absent parents and parents
// from other rooms resolve to nil rather than an error.
func (s *Service) resolveParent(parentID *uint, roomID uint) (*models.Message, error) {
	if parentID == nil {
		return nil, nil
	}
	parent, err := s.Store.GetMessageByID(*parentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if parent.RoomID != roomID {
		return nil, nil
	}
	return parent, nil
}

// buildChatMessageEvent denormalizes a message into the broadcast
// shape. The parent snapshot is read at build time: replies show the
// parent's content as of reply time, and a later edit of the parent
// does not rewrite them.
func buildChatMessageEvent(msg *models.Message, parent *models.Message, reactions []models.Reaction) models.ChatMessageEvent {
	ev := models.ChatMessageEvent{
		Type:      models.EventChatMessage,
		ID:        msg.ID,
		Message:   msg.Content,
		Sender:    msg.Sender,
		Timestamp: msg.Timestamp.UTC().Format(time.RFC3339),
		Reactions: make([]models.ReactionView, 0, len(reactions)),
		IsEdited:  msg.IsEdited,
		FileURL:   msg.FileURL,
		FileType:  msg.FileType,
		FileName:  msg.FileName,
	}
	for _, r := range reactions {
		ev.Reactions = append(ev.Reactions, models.ReactionView{Emoji: r.Emoji, Sender: r.Sender})
	}
	if parent != nil {
		ev.ParentID = msg.ParentID
		ev.ParentContent = &parent.Content
		ev.ParentSender = &parent.Sender
	}
	return ev
}
