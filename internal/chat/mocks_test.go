package chat_test

import (
	"io"

	"github.com/stretchr/testify/mock"

	"roomchat/backend/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) ListRooms() ([]models.Room, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockStorage) GetRoomByName(name string) (*models.Room, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockStorage) GetOrCreateRoom(name, createdBy string) (*models.Room, bool, error) {
	args := m.Called(name, createdBy)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Room), args.Bool(1), args.Error(2)
}

func (m *MockStorage) DeleteRoom(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetMessageByID(id uint) (*models.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) GetMessageBySender(id uint, sender string) (*models.Message, error) {
	args := m.Called(id, sender)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) DeleteMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) ListRoomMessages(roomID uint) ([]models.Message, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) ToggleReaction(messageID uint, sender, emoji string) (string, error) {
	args := m.Called(messageID, sender, emoji)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) ListReactions(messageID uint) ([]models.Reaction, error) {
	args := m.Called(messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Reaction), args.Error(1)
}

func (m *MockStorage) SaveFile(name string, src io.Reader) (string, error) {
	args := m.Called(name, src)
	return args.String(0), args.Error(1)
}
