package models

import "time"

// Room is a named chat channel. Rooms are created lazily on the first
// message sent to them, or explicitly through the REST surface.
type Room struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
	// CreatedBy is the identity string of the user who explicitly created
	// the room. Empty for rooms created lazily; such legacy rooms are
	// deletable by anyone.
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"-"`
}
