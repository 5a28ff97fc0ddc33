package models

import "time"

// AchievementRule selects the counter an achievement threshold is compared against.
type AchievementRule string

const (
	RuleTotalPlays    AchievementRule = "total_plays"
	RuleDistinctGames AchievementRule = "distinct_games"
	RuleCategoryPlays AchievementRule = "category_plays"
)

// Achievement is a badge definition.
type Achievement struct {
	ID          uint            `gorm:"primaryKey"`
	Code        string          `gorm:"size:100;uniqueIndex;not null"`
	Name        string          `gorm:"size:255;not null"`
	Description string
	Icon        string          `gorm:"size:100"`
	Rule        AchievementRule `gorm:"size:50;not null"`
	Threshold   int64           `gorm:"not null"`
	CategoryID  *uint
	CreatedAt   time.Time
}

// UserAchievement marks an achievement unlocked by a user.
// The primary key is a composite of (UserID, AchievementID) so grants are idempotent.
type UserAchievement struct {
	UserID        uint      `gorm:"primaryKey"`
	AchievementID uint      `gorm:"primaryKey"`
	UnlockedAt    time.Time `gorm:"not null"`

	Achievement Achievement `gorm:"foreignKey:AchievementID"`
}
