package repository

import (
	"context"
	"fmt"

	"gameportal/backend/internal/models"

	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository.
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List returns categories in display order with their active game counts.
func (r *GormCategoryRepository) List(ctx context.Context) ([]CategoryWithCount, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	type countRow struct {
		CategoryID uint
		Total      int64
	}
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&models.Game{}).
		Select("category_id, COUNT(*) AS total").
		Where("status = ?", models.GameStatusActive).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count category games: %w", err)
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}

	out := make([]CategoryWithCount, len(categories))
	for i, c := range categories {
		out[i] = CategoryWithCount{Category: c, ActiveGames: counts[c.ID]}
	}
	return out, nil
}

func (r *GormCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormCategoryRepository) MaxSortOrder(ctx context.Context) (int, error) {
	var highest int64
	row := r.db.WithContext(ctx).Model(&models.Category{}).Select("COALESCE(MAX(sort_order), 0)").Row()
	if err := row.Scan(&highest); err != nil {
		return 0, err
	}
	return int(highest), nil
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := slugTaken(tx, c.Slug, 0); err != nil {
			return err
		}
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("failed to create category: %w", duplicate(err))
		}
		return nil
	})
}

func (r *GormCategoryRepository) Update(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := slugTaken(tx, c.Slug, c.ID); err != nil {
			return err
		}
		res := tx.Model(c).
			Select("slug", "name", "description", "color", "icon").
			Updates(c)
		if res.Error != nil {
			return fmt.Errorf("failed to update category: %w", duplicate(res.Error))
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// slugTaken returns ErrDuplicate when another category, soft-deleted ones
// included, already uses slug.
func slugTaken(tx *gorm.DB, slug string, excludeID uint) error {
	var n int64
	err := tx.Unscoped().Model(&models.Category{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("failed to check category slug: %w", err)
	}
	if n > 0 {
		return ErrDuplicate
	}
	return nil
}

// DeleteIfUnused deletes the category unless active games still reference it.
// The count and the delete run in one transaction; when activeGames > 0
// nothing is modified.
func (r *GormCategoryRepository) DeleteIfUnused(ctx context.Context, id uint) (int64, error) {
	var active int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.First(&c, id).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Model(&models.Game{}).
			Where("category_id = ? AND status = ?", id, models.GameStatusActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return nil
		}
		return tx.Delete(&c).Error
	})
	return active, err
}

// SwapSortOrder exchanges the sort_order of two categories atomically.
func (r *GormCategoryRepository) SwapSortOrder(ctx context.Context, aID, bID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a, b models.Category
		if err := tx.First(&a, aID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.First(&b, bID).Error; err != nil {
			return notFound(err)
		}
		if a.SortOrder == b.SortOrder {
			// Equal positions would swap to the same order; spread them out first.
			if err := renumber(tx); err != nil {
				return err
			}
			if err := tx.First(&a, aID).Error; err != nil {
				return err
			}
			if err := tx.First(&b, bID).Error; err != nil {
				return err
			}
		}
		aOrder, bOrder := a.SortOrder, b.SortOrder
		if err := tx.Model(&a).Update("sort_order", bOrder).Error; err != nil {
			return err
		}
		return tx.Model(&b).Update("sort_order", aOrder).Error
	})
}

// renumber rewrites sort_order as 1..n in current display order.
func renumber(tx *gorm.DB) error {
	var ids []uint
	if err := tx.Model(&models.Category{}).Order("sort_order ASC, id ASC").Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to load category order: %w", err)
	}
	for i, id := range ids {
		if err := tx.Model(&models.Category{}).Where("id = ?", id).Update("sort_order", i+1).Error; err != nil {
			return fmt.Errorf("failed to renumber categories: %w", err)
		}
	}
	return nil
}

// Neighbor returns the adjacent category in display order, or ErrNotFound at the ends.
func (r *GormCategoryRepository) Neighbor(ctx context.Context, c *models.Category, up bool) (*models.Category, error) {
	var n models.Category
	tx := r.db.WithContext(ctx)
	if up {
		tx = tx.Where("sort_order < ? OR (sort_order = ? AND id < ?)", c.SortOrder, c.SortOrder, c.ID).
			Order("sort_order DESC, id DESC")
	} else {
		tx = tx.Where("sort_order > ? OR (sort_order = ? AND id > ?)", c.SortOrder, c.SortOrder, c.ID).
			Order("sort_order ASC, id ASC")
	}
	if err := tx.First(&n).Error; err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}
