package storage

import (
	"errors"
	"io"
	"log"

	"gorm.io/gorm"

	"roomchat/backend/internal/models"
)

// ErrNotFound is returned for absent rooms and messages. Ownership
// mismatches on edit/delete lookups surface as ErrNotFound as well:
// callers cannot tell "not yours" from "not there".
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write loses a race against the
// database's uniqueness constraints (concurrent identical reaction
// toggles).
var ErrConflict = errors.New("conflicting write")

// Storage is the persistence gateway consumed by the domain layer.
type Storage interface {
	ListRooms() ([]models.Room, error)
	GetRoomByName(name string) (*models.Room, error)
	GetOrCreateRoom(name, createdBy string) (*models.Room, bool, error)
	DeleteRoom(name string) error

	CreateMessage(msg *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	GetMessageBySender(id uint, sender string) (*models.Message, error)
	SaveMessage(msg *models.Message) error
	DeleteMessage(msg *models.Message) error
	ListRoomMessages(roomID uint) ([]models.Message, error)

	ToggleReaction(messageID uint, sender, emoji string) (string, error)
	ListReactions(messageID uint) ([]models.Reaction, error)

	SaveFile(name string, src io.Reader) (string, error)
}

// Service implements Storage on top of PostgreSQL via GORM, plus a
// local blob directory for uploads.
type Service struct {
	DB        *gorm.DB
	uploadDir string
}

func NewService(db *gorm.DB, uploadDir string) *Service {
	return &Service{DB: db, uploadDir: uploadDir}
}

func (s *Service) ListRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.Order("name asc").Find(&rooms).Error; err != nil {
		log.Printf("ERROR: Failed to list rooms: %v", err)
		return nil, err
	}
	return rooms, nil
}

func (s *Service) GetRoomByName(name string) (*models.Room, error) {
	var room models.Room
	err := s.DB.Where("name = ?", name).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %q: %v", name, err)
		return nil, err
	}
	return &room, nil
}

// GetOrCreateRoom returns the room with the given name, creating it if
// absent. createdBy is only applied on creation; an existing room keeps
// its original creator. The second return value reports creation.
func (s *Service) GetOrCreateRoom(name, createdBy string) (*models.Room, bool, error) {
	var room models.Room
	result := s.DB.Where(models.Room{Name: name}).
		Attrs(models.Room{CreatedBy: createdBy}).
		FirstOrCreate(&room)
	if result.Error != nil {
		log.Printf("ERROR: Failed to get or create room %q: %v", name, result.Error)
		return nil, false, result.Error
	}
	return &room, result.RowsAffected > 0, nil
}

// DeleteRoom removes the room together with its messages and their
// reactions, in one transaction. The creator check lives in the domain
// layer; this is the unconditional delete.
func (s *Service) DeleteRoom(name string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Where("name = ?", name).First(&room).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var messageIDs []uint
		if err := tx.Model(&models.Message{}).
			Where("room_id = ?", room.ID).
			Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("room_id = ?", room.ID).Delete(&models.Message{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&room).Error
	})
}

func (s *Service) CreateMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %d: %v", msg.RoomID, err)
		return err
	}
	return nil
}

func (s *Service) GetMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	err := s.DB.First(&msg, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessageBySender looks a message up by id AND sender in a single
// filter, so an ownership mismatch is observably identical to a
// missing message.
func (s *Service) GetMessageBySender(id uint, sender string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Where("id = ? AND sender = ?", id, sender).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *Service) SaveMessage(msg *models.Message) error {
	return s.DB.Save(msg).Error
}

func (s *Service) DeleteMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", msg.ID).Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(msg).Error
	})
}

func (s *Service) ListRoomMessages(roomID uint) ([]models.Message, error) {
	var msgs []models.Message
	if err := s.DB.Where("room_id = ?", roomID).Order("timestamp asc, id asc").Find(&msgs).Error; err != nil {
		log.Printf("ERROR: Failed to load history for room %d: %v", roomID, err)
		return nil, err
	}
	return msgs, nil
}

// ToggleReaction flips the (message, sender, emoji) reaction: absent
// becomes present ("added"), present is removed ("removed"). The
// composite unique index arbitrates concurrent identical toggles; a
// lost race comes back as ErrConflict.
func (s *Service) ToggleReaction(messageID uint, sender, emoji string) (string, error) {
	var reaction models.Reaction
	err := s.DB.Where("message_id = ? AND sender = ? AND emoji = ?", messageID, sender, emoji).
		First(&reaction).Error
	if err == nil {
		if err := s.DB.Delete(&reaction).Error; err != nil {
			return "", err
		}
		return "removed", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	reaction = models.Reaction{MessageID: messageID, Sender: sender, Emoji: emoji}
	if err := s.DB.Create(&reaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrConflict
		}
		return "", err
	}
	return "added", nil
}

func (s *Service) ListReactions(messageID uint) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := s.DB.Where("message_id = ?", messageID).Order("id asc").Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}
