package models

import (
	"time"
)

// Vote is a single user's endorsement of one idea. The composite unique
// index is the authoritative guard against double voting; the toggle
// handler relies on it rather than on check-then-act.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_idea" json:"user_id"`
	IdeaID    uint      `gorm:"not null;index;uniqueIndex:idx_user_idea" json:"idea_id"`
	CreatedAt time.Time `json:"created_at"`
}
