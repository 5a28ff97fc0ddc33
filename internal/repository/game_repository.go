package repository

import (
	"context"
	"fmt"
	"strings"

	"gameportal/backend/internal/catalog"
	"gameportal/backend/internal/models"

	"github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// GormGameRepository is a GORM implementation of GameRepository. Catalog
// predicates are rendered with squirrel and handed to GORM as a single
// WHERE expression.
type GormGameRepository struct {
	db *gorm.DB
}

func NewGormGameRepository(db *gorm.DB) *GormGameRepository {
	return &GormGameRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// predicateSQL renders one predicate. Column names come from fixed sets.
func predicateSQL(p catalog.Predicate) (squirrel.Sqlizer, error) {
	switch p := p.(type) {
	case catalog.StatusIs:
		return squirrel.Eq{"games.status": string(p.Status)}, nil
	case catalog.TextContains:
		pattern := containsPattern(p.Text)
		return squirrel.Or{
			squirrel.Expr(`LOWER(games.name) LIKE ? ESCAPE '\'`, pattern),
			squirrel.Expr(`LOWER(games.description) LIKE ? ESCAPE '\'`, pattern),
		}, nil
	case catalog.CategoryIs:
		return squirrel.Eq{"games.category_id": p.CategoryID}, nil
	case catalog.TagsContainAll:
		tags := p.Tags()
		sub, args, err := squirrel.Select("gt.game_id").
			From("game_tags gt").
			Join("tags t ON t.id = gt.tag_id").
			Where(squirrel.Eq{"LOWER(t.name)": tags}).
			Where("t.deleted_at IS NULL").
			GroupBy("gt.game_id").
			Having("COUNT(DISTINCT LOWER(t.name)) = ?", len(tags)).
			ToSql()
		if err != nil {
			return nil, err
		}
		return squirrel.Expr("games.id IN ("+sub+")", args...), nil
	case catalog.RatingAtLeast:
		return squirrel.GtOrEq{"games.rating": p.Min}, nil
	case catalog.RatingAtMost:
		return squirrel.LtOrEq{"games.rating": p.Max}, nil
	case catalog.DifficultyIs:
		return squirrel.Eq{"games.difficulty": string(p.Difficulty)}, nil
	case catalog.FlagIs:
		switch p.Flag {
		case catalog.FlagFeatured, catalog.FlagPopular, catalog.FlagNew:
			return squirrel.Eq{"games." + string(p.Flag): p.Value}, nil
		}
		return nil, fmt.Errorf("unknown flag %q", p.Flag)
	}
	return nil, fmt.Errorf("unsupported predicate %T", p)
}

// whereClause joins the predicates with AND.
func whereClause(preds []catalog.Predicate) (string, []interface{}, error) {
	and := make(squirrel.And, 0, len(preds))
	for _, p := range preds {
		part, err := predicateSQL(p)
		if err != nil {
			return "", nil, err
		}
		and = append(and, part)
	}
	return and.ToSql()
}

var sortColumns = map[catalog.SortField]string{
	catalog.FieldRating:    "games.rating",
	catalog.FieldPlayCount: "games.play_count",
	catalog.FieldCreatedAt: "games.created_at",
	catalog.FieldID:        "games.id",
}

func orderClause(terms []catalog.OrderTerm) (string, error) {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		col, ok := sortColumns[t.Field]
		if !ok {
			return "", fmt.Errorf("unsupported sort field %q", t.Field)
		}
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

func (r *GormGameRepository) filtered(ctx context.Context, preds []catalog.Predicate) (*gorm.DB, error) {
	where, args, err := whereClause(preds)
	if err != nil {
		return nil, err
	}
	tx := r.db.WithContext(ctx).Model(&models.Game{})
	if where != "" {
		tx = tx.Where(where, args...)
	}
	return tx, nil
}

// Find implements catalog.Store.
func (r *GormGameRepository) Find(ctx context.Context, q catalog.Query) ([]models.Game, error) {
	tx, err := r.filtered(ctx, q.Predicates())
	if err != nil {
		return nil, err
	}
	order, err := orderClause(q.Order())
	if err != nil {
		return nil, err
	}

	var games []models.Game
	err = tx.Preload("Tags").
		Order(order).
		Limit(q.Limit()).
		Offset(q.Offset()).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find games: %w", err)
	}
	return games, nil
}

// Count implements catalog.Store.
func (r *GormGameRepository) Count(ctx context.Context, preds []catalog.Predicate) (int64, error) {
	tx, err := r.filtered(ctx, preds)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return total, nil
}

func (r *GormGameRepository) GetByID(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).Preload("Tags").Preload("Category").First(&game, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &game, nil
}

func (r *GormGameRepository) GetBySlug(ctx context.Context, slug string) (*models.Game, error) {
	var game models.Game
	err := r.db.WithContext(ctx).Preload("Tags").Preload("Category").
		Where("slug = ?", slug).First(&game).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &game, nil
}

func (r *GormGameRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Game{}).
		Where("slug = ? AND id <> ?", slug, excludeID).Count(&n).Error
	return n > 0, err
}

// resolveTags finds or creates a tag row for each name.
func resolveTags(tx *gorm.DB, names []string) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		tag := models.Tag{Name: name}
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, fmt.Errorf("failed to resolve tag %q: %w", name, err)
		}
		tags = append(tags, &tag)
	}
	return tags, nil
}

func (r *GormGameRepository) Create(ctx context.Context, game *models.Game, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		game.Tags = tags
		if err := tx.Create(game).Error; err != nil {
			return fmt.Errorf("failed to create game: %w", err)
		}
		return nil
	})
}

// editableGameColumns are written by Update. play_count and status have their
// own writers and are never overwritten from a stale read.
var editableGameColumns = []string{
	"slug", "name", "description", "thumbnail_url", "category_id",
	"difficulty", "rating", "is_featured", "is_popular", "is_new",
}

// Update saves the admin-editable columns and replaces the tag association.
func (r *GormGameRepository) Update(ctx context.Context, game *models.Game, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		res := tx.Model(game).Select(editableGameColumns).Updates(game)
		if res.Error != nil {
			return fmt.Errorf("failed to update game: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Model(game).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("failed to update tags for game: %w", err)
		}
		game.Tags = tags
		return nil
	})
}

func (r *GormGameRepository) SetStatus(ctx context.Context, id uint, status models.GameStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to set game status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
