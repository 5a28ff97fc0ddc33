package service

import (
	"context"
	"errors"
	"strconv"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"

	"go.uber.org/zap"
)

// CategoryParams carries editable category fields.
type CategoryParams struct {
	Name        string
	Slug        string
	Description string
	Color       string
	Icon        string
}

// Move directions
const (
	MoveUp   = "up"
	MoveDown = "down"
)

// CategoryService handles category browsing and administration.
type CategoryService struct {
	repo      repository.CategoryRepository
	publisher events.Publisher
	log       *zap.SugaredLogger
}

func NewCategoryService(repo repository.CategoryRepository, publisher events.Publisher, log *zap.SugaredLogger) *CategoryService {
	return &CategoryService{repo: repo, publisher: publisher, log: log.Named("categories")}
}

func (s *CategoryService) List(ctx context.Context) ([]repository.CategoryWithCount, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// Get resolves a category by numeric id or by slug.
func (s *CategoryService) Get(ctx context.Context, slugOrID string) (*models.Category, error) {
	if id, err := strconv.ParseUint(slugOrID, 10, 64); err == nil {
		c, err := s.repo.GetByID(ctx, uint(id))
		return c, mapRepoErr(err, "category", slugOrID)
	}
	c, err := s.repo.GetBySlug(ctx, slugOrID)
	return c, mapRepoErr(err, "category", slugOrID)
}

func (s *CategoryService) Create(ctx context.Context, p CategoryParams) (*models.Category, error) {
	slug := p.Slug
	if slug == "" {
		slug = p.Name
	}
	highest, err := s.repo.MaxSortOrder(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	c := &models.Category{
		Slug:        MakeSlug(slug),
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		Icon:        p.Icon,
		SortOrder:   highest + 1,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapRepoErr(err, "category", c.Slug)
	}
	s.publish(ctx, events.TypeCategoryChanged, c)
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, p CategoryParams) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "category", id)
	}
	if p.Slug != "" {
		c.Slug = MakeSlug(p.Slug)
	}
	c.Name = p.Name
	c.Description = p.Description
	c.Color = p.Color
	c.Icon = p.Icon

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, mapRepoErr(err, "category", id)
	}
	s.publish(ctx, events.TypeCategoryChanged, c)
	return c, nil
}

// Delete removes a category. It fails with CATEGORY_IN_USE, leaving the
// category untouched, while any active game references it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	active, err := s.repo.DeleteIfUnused(ctx, id)
	if err != nil {
		return mapRepoErr(err, "category", id)
	}
	if active > 0 {
		return apperrors.NewCategoryInUseError(id, active)
	}
	s.publish(ctx, events.TypeCategoryDeleted, map[string]uint{"id": id})
	return nil
}

// Move swaps the category with its neighbour in display order. Moving past
// either end is a no-op.
func (s *CategoryService) Move(ctx context.Context, id uint, direction string) ([]repository.CategoryWithCount, error) {
	if direction != MoveUp && direction != MoveDown {
		return nil, apperrors.NewValidationError("direction", "must be one of: up down")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "category", id)
	}

	neighbor, err := s.repo.Neighbor(ctx, c, direction == MoveUp)
	if errors.Is(err, repository.ErrNotFound) {
		return s.List(ctx)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if err := s.swap(ctx, c.ID, neighbor.ID); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

// Swap exchanges the display positions of two categories.
func (s *CategoryService) Swap(ctx context.Context, aID, bID uint) error {
	if aID == bID {
		return apperrors.NewValidationError("category_ids", "must reference two different categories")
	}
	return s.swap(ctx, aID, bID)
}

func (s *CategoryService) swap(ctx context.Context, aID, bID uint) error {
	if err := s.repo.SwapSortOrder(ctx, aID, bID); err != nil {
		return mapRepoErr(err, "category", []uint{aID, bID})
	}
	s.publish(ctx, events.TypeCategoriesReordered, map[string]uint{"a": aID, "b": bID})
	return nil
}

func (s *CategoryService) publish(ctx context.Context, typ string, payload interface{}) {
	if err := s.publisher.Publish(ctx, events.New(events.TopicCategories, typ, payload)); err != nil {
		s.log.Warnw("failed to publish category event", "type", typ, "error", err)
	}
}
