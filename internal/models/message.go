package models

import "time"

// Message is a persisted chat message. The ID is assigned by the
// database and doubles as the wire-level message id.
type Message struct {
	ID     uint `gorm:"primaryKey"`
	RoomID uint `gorm:"not null;index"`
	// Sender is a free-text identity string. Edit and delete ownership is
	// checked by string equality against this field, nothing stronger.
	Sender  string `gorm:"type:text;not null"`
	Content string `gorm:"type:text"`
	// Timestamp is set once at creation and never updated afterwards.
	Timestamp time.Time `gorm:"autoCreateTime"`
	IsEdited  bool      `gorm:"not null;default:false"`
	// ParentID references the message this one replies to, in the same room.
	ParentID *uint `gorm:"index"`

	// Optional attachment metadata. FileType is "image" or "video".
	FileURL  string `gorm:"type:text"`
	FileType string `gorm:"type:text"`
	FileName string `gorm:"type:text"`
}
