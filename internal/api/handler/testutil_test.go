package handler_test

import (
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"roomchat/backend/internal/api/handler"
	"roomchat/backend/internal/chat"
	"roomchat/backend/internal/chathub"
	"roomchat/backend/internal/models"
	"roomchat/backend/internal/storage"
)

// fakeStorage is an in-memory storage.Storage so handler tests can run
// the real domain layer end to end without a database.
type fakeStorage struct {
	mu        sync.Mutex
	nextRoom  uint
	nextMsg   uint
	nextReact uint
	rooms     map[string]*models.Room
	messages  map[uint]*models.Message
	reactions map[uint]*models.Reaction
	blobs     map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		rooms:     make(map[string]*models.Room),
		messages:  make(map[uint]*models.Message),
		reactions: make(map[uint]*models.Reaction),
		blobs:     make(map[string][]byte),
	}
}

func (f *fakeStorage) ListRooms() ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Room, 0, len(f.rooms))
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStorage) GetRoomByName(name string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *room
	return &copy, nil
}

func (f *fakeStorage) GetOrCreateRoom(name, createdBy string) (*models.Room, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room, ok := f.rooms[name]; ok {
		copy := *room
		return &copy, false, nil
	}
	f.nextRoom++
	room := &models.Room{ID: f.nextRoom, Name: name, CreatedBy: createdBy}
	f.rooms[name] = room
	copy := *room
	return &copy, true, nil
}

func (f *fakeStorage) DeleteRoom(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[name]
	if !ok {
		return storage.ErrNotFound
	}
	for id, msg := range f.messages {
		if msg.RoomID == room.ID {
			delete(f.messages, id)
		}
	}
	delete(f.rooms, name)
	return nil
}

func (f *fakeStorage) CreateMessage(msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMsg++
	msg.ID = f.nextMsg
	copy := *msg
	f.messages[msg.ID] = &copy
	return nil
}

func (f *fakeStorage) GetMessageByID(id uint) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *msg
	return &copy, nil
}

func (f *fakeStorage) GetMessageBySender(id uint, sender string) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg, ok := f.messages[id]
	if !ok || msg.Sender != sender {
		return nil, storage.ErrNotFound
	}
	copy := *msg
	return &copy, nil
}

func (f *fakeStorage) SaveMessage(msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy := *msg
	f.messages[msg.ID] = &copy
	return nil
}

func (f *fakeStorage) DeleteMessage(msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.messages, msg.ID)
	for id, r := range f.reactions {
		if r.MessageID == msg.ID {
			delete(f.reactions, id)
		}
	}
	return nil
}

func (f *fakeStorage) ListRoomMessages(roomID uint) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for id := uint(1); id <= f.nextMsg; id++ {
		if msg, ok := f.messages[id]; ok && msg.RoomID == roomID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (f *fakeStorage) ToggleReaction(messageID uint, sender, emoji string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.reactions {
		if r.MessageID == messageID && r.Sender == sender && r.Emoji == emoji {
			delete(f.reactions, id)
			return "removed", nil
		}
	}
	f.nextReact++
	f.reactions[f.nextReact] = &models.Reaction{ID: f.nextReact, MessageID: messageID, Sender: sender, Emoji: emoji}
	return "added", nil
}

func (f *fakeStorage) ListReactions(messageID uint) ([]models.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Reaction{}
	for id := uint(1); id <= f.nextReact; id++ {
		if r, ok := f.reactions[id]; ok && r.MessageID == messageID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStorage) SaveFile(name string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "/media/test_" + name
	f.blobs[url] = data
	return url, nil
}

func mustMessage(roomID uint, sender, content string) *models.Message {
	return &models.Message{RoomID: roomID, Sender: sender, Content: content}
}

// newTestRouter builds the same routing as main over a fake store and
// a fresh registry.
func newTestRouter(fake *fakeStorage) (*gin.Engine, *chathub.Registry) {
	gin.SetMode(gin.TestMode)

	registry := chathub.NewRegistry()
	h := handler.NewHandler(chat.NewService(fake), registry, "test-secret")

	r := gin.New()
	r.GET("/api/rooms", h.ListRooms)
	r.POST("/api/rooms/create", h.CreateRoom)
	r.DELETE("/api/rooms/:name/delete", h.DeleteRoom)
	r.GET("/api/rooms/:name/messages", h.RoomMessages)
	r.POST("/api/upload-file", h.UploadFile)
	r.GET("/api/identity", h.GetIdentity)
	r.GET("/ws/chat/:room", h.ServeWebSocket)
	return r, registry
}
