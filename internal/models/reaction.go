package models

// Reaction is a single emoji reaction on a message. The composite
// unique index is the source of truth for toggle semantics: one sender
// holds at most one reaction of a given emoji per message, and the
// database, not the application, enforces that under concurrent toggles.
type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	MessageID uint   `gorm:"not null;uniqueIndex:idx_reaction_identity"`
	Sender    string `gorm:"type:text;not null;uniqueIndex:idx_reaction_identity"`
	Emoji     string `gorm:"type:text;not null;uniqueIndex:idx_reaction_identity"`
}
