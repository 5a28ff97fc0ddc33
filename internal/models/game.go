package models

import "gorm.io/gorm"

// GameStatus controls catalog visibility. Only active games are listed.
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusInactive GameStatus = "inactive"
)

// Difficulty is the advertised difficulty level of a game.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Game represents a playable game in the catalog.
type Game struct {
	gorm.Model
	Slug         string     `gorm:"size:120;uniqueIndex;not null"`
	Name         string     `gorm:"size:255;not null"`
	Description  string
	ThumbnailURL string     `gorm:"size:512"`
	Tags         []*Tag     `gorm:"many2many:game_tags;"`
	CategoryID   uint       `gorm:"not null;index"`
	Category     *Category  `gorm:"foreignKey:CategoryID"`
	Difficulty   Difficulty `gorm:"size:20;not null;default:'medium'"`
	Rating       float64    `gorm:"not null;default:0;index"`
	PlayCount    int64      `gorm:"not null;default:0;index"`
	IsFeatured   bool       `gorm:"not null;default:false"`
	IsPopular    bool       `gorm:"not null;default:false"`
	IsNew        bool       `gorm:"not null;default:false"`
	Status       GameStatus `gorm:"size:20;not null;default:'active';index"`
}

// TagNames returns the names of the game's tags in association order.
func (g Game) TagNames() []string {
	names := make([]string, 0, len(g.Tags))
	for _, t := range g.Tags {
		if t != nil {
			names = append(names, t.Name)
		}
	}
	return names
}

// IsValidDifficulty reports whether d is one of the known levels.
func IsValidDifficulty(d string) bool {
	switch Difficulty(d) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
