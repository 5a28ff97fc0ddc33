package models

import "time"

// PlayHistory records a single counted play session.
type PlayHistory struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index"`
	GameID          uint      `gorm:"not null;index"`
	PlayedAt        time.Time `gorm:"not null;index"`
	DurationSeconds int       `gorm:"not null;default:0"`

	Game Game `gorm:"foreignKey:GameID"`
}
