package models

import (
	"time"
)

// GameSession represents one completed play session, recorded when a
// member's "playing" activity disappears from their presence.
type GameSession struct {
	ID uint `gorm:"primarykey" json:"id"`

	UserID   string `gorm:"not null;index" json:"user_id"`
	UserName string `gorm:"not null" json:"user_name"`
	GameName string `gorm:"not null;index" json:"game_name"`

	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	// DurationSeconds is cached at write time and always equals
	// EndTime - StartTime in whole seconds.
	DurationSeconds int64 `gorm:"not null" json:"duration_seconds"`

	Details string `json:"details"`
}

// TableName keeps the table name the analytics queries expect.
func (GameSession) TableName() string {
	return "game_sessions"
}
