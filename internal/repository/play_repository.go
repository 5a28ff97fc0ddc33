package repository

import (
	"context"
	"fmt"

	"gameportal/backend/internal/models"

	"gorm.io/gorm"
)

// GormPlayRepository is a GORM implementation of PlayRepository.
type GormPlayRepository struct {
	db *gorm.DB
}

func NewGormPlayRepository(db *gorm.DB) *GormPlayRepository {
	return &GormPlayRepository{db: db}
}

// Record inserts the play and bumps the game's play_count in one transaction.
// The game must exist and be active.
func (r *GormPlayRepository) Record(ctx context.Context, play *models.PlayHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Game{}).
			Where("id = ? AND status = ?", play.GameID, models.GameStatusActive).
			UpdateColumn("play_count", gorm.Expr("play_count + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("failed to increment play count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Omit("Game").Create(play).Error; err != nil {
			return fmt.Errorf("failed to record play: %w", err)
		}
		return nil
	})
}

// History returns the user's plays, newest first.
func (r *GormPlayRepository) History(ctx context.Context, userID uint, page, limit int) ([]models.PlayHistory, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.PlayHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count play history: %w", err)
	}

	var plays []models.PlayHistory
	err := r.db.WithContext(ctx).
		Preload("Game").
		Where("user_id = ?", userID).
		Order("played_at DESC, id DESC").
		Limit(limit).
		Offset(offset(page, limit)).
		Find(&plays).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load play history: %w", err)
	}
	return plays, total, nil
}

// Stats aggregates counters used for achievements and profiles.
func (r *GormPlayRepository) Stats(ctx context.Context, userID uint) (PlayStats, error) {
	stats := PlayStats{CategoryPlays: map[uint]int64{}}

	row := r.db.WithContext(ctx).Model(&models.PlayHistory{}).
		Select("COUNT(*), COUNT(DISTINCT game_id)").
		Where("user_id = ?", userID).
		Row()
	if err := row.Scan(&stats.TotalPlays, &stats.DistinctGames); err != nil {
		return stats, fmt.Errorf("failed to aggregate plays: %w", err)
	}

	type categoryRow struct {
		CategoryID uint
		Total      int64
	}
	var rows []categoryRow
	err := r.db.WithContext(ctx).Table("play_histories ph").
		Select("g.category_id AS category_id, COUNT(*) AS total").
		Joins("JOIN games g ON g.id = ph.game_id").
		Where("ph.user_id = ?", userID).
		Group("g.category_id").
		Scan(&rows).Error
	if err != nil {
		return stats, fmt.Errorf("failed to aggregate category plays: %w", err)
	}
	for _, row := range rows {
		stats.CategoryPlays[row.CategoryID] = row.Total
	}
	return stats, nil
}
