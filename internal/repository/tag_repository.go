package repository

import (
	"context"
	"fmt"
	"strings"

	"gameportal/backend/internal/models"

	"gorm.io/gorm"
)

// GormTagRepository is a GORM implementation of TagRepository.
type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// List returns all tags by name with the number of active games carrying each.
func (r *GormTagRepository) List(ctx context.Context) ([]TagWithCount, error) {
	var out []TagWithCount
	err := r.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.*, COUNT(games.id) AS active_games").
		Joins("LEFT JOIN game_tags ON game_tags.tag_id = tags.id").
		Joins("LEFT JOIN games ON games.id = game_tags.game_id AND games.status = ? AND games.deleted_at IS NULL", models.GameStatusActive).
		Group("tags.id").
		Order("tags.name ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return out, nil
}

// Rename changes a tag's name. Names are stored lower-case and stay unique.
func (r *GormTagRepository) Rename(ctx context.Context, id uint, name string) (*models.Tag, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	var tag models.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tag, id).Error; err != nil {
			return notFound(err)
		}
		var n int64
		if err := tx.Unscoped().Model(&models.Tag{}).Where("name = ? AND id <> ?", name, id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}
		tag.Name = name
		return tx.Model(&tag).Update("name", name).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// Delete detaches the tag from every game and removes it permanently.
func (r *GormTagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM game_tags WHERE tag_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach tag: %w", err)
		}
		res := tx.Unscoped().Delete(&models.Tag{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete tag: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
