package repository

import (
	"context"
	"fmt"
	"time"

	"gameportal/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAchievementRepository is a GORM implementation of AchievementRepository.
type GormAchievementRepository struct {
	db *gorm.DB
}

func NewGormAchievementRepository(db *gorm.DB) *GormAchievementRepository {
	return &GormAchievementRepository{db: db}
}

func (r *GormAchievementRepository) List(ctx context.Context) ([]models.Achievement, error) {
	var list []models.Achievement
	if err := r.db.WithContext(ctx).Order("threshold ASC, id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return list, nil
}

func (r *GormAchievementRepository) ForUser(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	var list []models.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("unlocked_at ASC, achievement_id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load user achievements: %w", err)
	}
	return list, nil
}

// Grant records unlocks, skipping ones the user already holds, and returns
// the IDs that were newly granted.
func (r *GormAchievementRepository) Grant(ctx context.Context, userID uint, achievementIDs []uint, at time.Time) ([]uint, error) {
	var granted []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range achievementIDs {
			ua := models.UserAchievement{UserID: userID, AchievementID: id, UnlockedAt: at}
			res := tx.Omit("Achievement").Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
			if res.Error != nil {
				return fmt.Errorf("failed to grant achievement %d: %w", id, res.Error)
			}
			if res.RowsAffected > 0 {
				granted = append(granted, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return granted, nil
}

// Upsert inserts definitions or refreshes them by code.
func (r *GormAchievementRepository) Upsert(ctx context.Context, achievements []models.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "icon", "rule", "threshold", "category_id"}),
	}).Create(&achievements).Error
}
