package models

import (
	"encoding/json"
	"errors"
)

// EventType discriminates realtime frames in both directions.
type EventType string

const (
	// Inbound (client -> server).
	EventChatMessage   EventType = "chat_message"
	EventReaction      EventType = "reaction"
	EventTyping        EventType = "typing"
	EventEditMessage   EventType = "edit_message"
	EventDeleteMessage EventType = "delete_message"

	// Outbound (server -> room members). chat_message is shared.
	EventReactionUpdate EventType = "reaction_update"
	EventUserTyping     EventType = "user_typing"
	EventMessageEdit    EventType = "message_edit"
	EventMessageDelete  EventType = "message_delete"
)

// ErrUnknownEventType marks an inbound frame whose type is not one of
// the five supported kinds. Sessions drop such frames silently so that
// newer clients can talk to older servers.
var ErrUnknownEventType = errors.New("unknown event type")

// ValidationError reports bad caller input: a missing required event
// field, or a rejected file upload. It maps to HTTP 400 on the REST
// surface and to a dropped frame on the realtime surface.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// InboundEvent is the closed set of frames a session accepts. Decoding
// happens once at the connection boundary; everything past that point
// works with a concrete variant.
type InboundEvent interface {
	inboundEvent()
}

type InboundChatMessage struct {
	Message  string
	Sender   string
	ParentID *uint
}

type InboundReaction struct {
	MessageID uint
	Sender    string
	Emoji     string
}

type InboundTyping struct {
	Sender   string
	IsTyping bool
}

type InboundEdit struct {
	MessageID uint
	Content   string
	Sender    string
}

type InboundDelete struct {
	MessageID uint
	Sender    string
}

func (InboundChatMessage) inboundEvent() {}
func (InboundReaction) inboundEvent()    {}
func (InboundTyping) inboundEvent()      {}
func (InboundEdit) inboundEvent()        {}
func (InboundDelete) inboundEvent()      {}

// inboundEnvelope is the superset of fields any inbound frame may
// carry. Pointers distinguish "absent" from zero values.
type inboundEnvelope struct {
	Type      EventType `json:"type"`
	Message   *string   `json:"message"`
	Sender    *string   `json:"sender"`
	ParentID  *uint     `json:"parent_id"`
	MessageID *uint     `json:"message_id"`
	Emoji     *string   `json:"emoji"`
	IsTyping  *bool     `json:"is_typing"`
	Content   *string   `json:"content"`
}

// ParseInboundEvent decodes one realtime frame into its typed variant.
// A missing required field yields a *ValidationError; an unrecognized
// type yields ErrUnknownEventType.
func ParseInboundEvent(data []byte) (InboundEvent, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewValidationError("malformed event frame: " + err.Error())
	}

	switch env.Type {
	case EventChatMessage:
		if env.Message == nil {
			return nil, NewValidationError("chat_message requires field message")
		}
		if env.Sender == nil {
			return nil, NewValidationError("chat_message requires field sender")
		}
		return InboundChatMessage{Message: *env.Message, Sender: *env.Sender, ParentID: env.ParentID}, nil

	case EventReaction:
		if env.MessageID == nil {
			return nil, NewValidationError("reaction requires field message_id")
		}
		if env.Sender == nil {
			return nil, NewValidationError("reaction requires field sender")
		}
		if env.Emoji == nil {
			return nil, NewValidationError("reaction requires field emoji")
		}
		return InboundReaction{MessageID: *env.MessageID, Sender: *env.Sender, Emoji: *env.Emoji}, nil

	case EventTyping:
		if env.Sender == nil {
			return nil, NewValidationError("typing requires field sender")
		}
		if env.IsTyping == nil {
			return nil, NewValidationError("typing requires field is_typing")
		}
		return InboundTyping{Sender: *env.Sender, IsTyping: *env.IsTyping}, nil

	case EventEditMessage:
		if env.MessageID == nil {
			return nil, NewValidationError("edit_message requires field message_id")
		}
		if env.Content == nil {
			return nil, NewValidationError("edit_message requires field content")
		}
		if env.Sender == nil {
			return nil, NewValidationError("edit_message requires field sender")
		}
		return InboundEdit{MessageID: *env.MessageID, Content: *env.Content, Sender: *env.Sender}, nil

	case EventDeleteMessage:
		if env.MessageID == nil {
			return nil, NewValidationError("delete_message requires field message_id")
		}
		if env.Sender == nil {
			return nil, NewValidationError("delete_message requires field sender")
		}
		return InboundDelete{MessageID: *env.MessageID, Sender: *env.Sender}, nil
	}

	return nil, ErrUnknownEventType
}

// ServerEvent is the closed set of frames fanned out to room members.
// Every variant serializes as a flat object with a "type" discriminator.
type ServerEvent interface {
	serverEvent()
}

// ReactionView is the denormalized reaction shape embedded in
// chat_message frames.
type ReactionView struct {
	Emoji  string `json:"emoji"`
	Sender string `json:"sender"`
}

// ChatMessageEvent is the full denormalized message shape, used both
// for broadcast frames and for history/upload REST responses. The
// parent fields are a snapshot of the parent at the time the frame is
// built; a missing or deleted parent leaves them unset.
type ChatMessageEvent struct {
	Type          EventType      `json:"type"`
	ID            uint           `json:"id"`
	Message       string         `json:"message"`
	Sender        string         `json:"sender"`
	Timestamp     string         `json:"timestamp"`
	Reactions     []ReactionView `json:"reactions"`
	ParentID      *uint          `json:"parent_id,omitempty"`
	ParentContent *string        `json:"parent_content,omitempty"`
	ParentSender  *string        `json:"parent_sender,omitempty"`
	IsEdited      bool           `json:"is_edited"`
	FileURL       string         `json:"file_url,omitempty"`
	FileType      string         `json:"file_type,omitempty"`
	FileName      string         `json:"file_name,omitempty"`
}

type ReactionUpdateEvent struct {
	Type      EventType `json:"type"`
	MessageID uint      `json:"message_id"`
	Sender    string    `json:"sender"`
	Emoji     string    `json:"emoji"`
	Action    string    `json:"action"` // "added" or "removed"
}

type UserTypingEvent struct {
	Type     EventType `json:"type"`
	Sender   string    `json:"sender"`
	IsTyping bool      `json:"is_typing"`
}

type MessageEditEvent struct {
	Type      EventType `json:"type"`
	MessageID uint      `json:"message_id"`
	Content   string    `json:"content"`
}

type MessageDeleteEvent struct {
	Type      EventType `json:"type"`
	MessageID uint      `json:"message_id"`
}

func (ChatMessageEvent) serverEvent()    {}
func (ReactionUpdateEvent) serverEvent() {}
func (UserTypingEvent) serverEvent()     {}
func (MessageEditEvent) serverEvent()    {}
func (MessageDeleteEvent) serverEvent()  {}
