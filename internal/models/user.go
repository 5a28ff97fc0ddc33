package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the local projection of an identity-provider account.
// ExternalID holds the provider's subject claim.
type User struct {
	gorm.Model
	ExternalID    string  `gorm:"size:255;uniqueIndex;not null"`
	Nickname      string  `gorm:"size:255"`
	Email         string  `gorm:"size:255;index"`
	AvatarURL     string  `gorm:"size:512"`
	Role          string  `gorm:"size:50;not null;default:'user';index"`
	FavoriteGames []*Game `gorm:"many2many:user_favorite_games;"`
}
