package service

import (
	"context"
	"fmt"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"

	"go.uber.org/zap"
)

// GameParams carries editable game fields.
type GameParams struct {
	Name         string
	Slug         string
	Description  string
	ThumbnailURL string
	CategoryID   uint
	Difficulty   string
	Rating       float64
	IsFeatured   bool
	IsPopular    bool
	IsNew        bool
	Tags         []string
}

// GameService handles single-game lookups and catalog administration.
// Listing and filtering live in the catalog package.
type GameService struct {
	games      repository.GameRepository
	categories repository.CategoryRepository
	publisher  events.Publisher
	log        *zap.SugaredLogger
}

func NewGameService(games repository.GameRepository, categories repository.CategoryRepository, publisher events.Publisher, log *zap.SugaredLogger) *GameService {
	return &GameService{games: games, categories: categories, publisher: publisher, log: log.Named("games")}
}

// GetBySlug returns an active game. Admins may also see inactive ones.
func (s *GameService) GetBySlug(ctx context.Context, slug string, includeInactive bool) (*models.Game, error) {
	g, err := s.games.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoErr(err, "game", slug)
	}
	if g.Status != models.GameStatusActive && !includeInactive {
		return nil, apperrors.NewNotFoundError("game", slug)
	}
	return g, nil
}

func (s *GameService) GetByID(ctx context.Context, id uint) (*models.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	return g, mapRepoErr(err, "game", id)
}

func (s *GameService) validate(ctx context.Context, p GameParams) error {
	if p.Difficulty != "" && !models.IsValidDifficulty(p.Difficulty) {
		return apperrors.NewValidationError("difficulty", "must be one of: easy medium hard")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return apperrors.NewValidationError("rating", "must be between 0 and 5")
	}
	if _, err := s.categories.GetByID(ctx, p.CategoryID); err != nil {
		if mapped := mapRepoErr(err, "category", p.CategoryID); apperrors.HasCode(mapped, apperrors.ErrCodeNotFound) {
			return apperrors.NewValidationError("category_id", fmt.Sprintf("category %d does not exist", p.CategoryID))
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *GameService) claimSlug(ctx context.Context, requested, name string, excludeID uint) (string, error) {
	if requested == "" {
		requested = name
	}
	slug := MakeSlug(requested)
	taken, err := s.games.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if taken {
		return "", apperrors.NewConflictError(fmt.Sprintf("slug %q is already in use", slug))
	}
	return slug, nil
}

func (p GameParams) apply(g *models.Game) {
	g.Name = p.Name
	g.Description = p.Description
	g.ThumbnailURL = p.ThumbnailURL
	g.CategoryID = p.CategoryID
	g.Rating = p.Rating
	g.IsFeatured = p.IsFeatured
	g.IsPopular = p.IsPopular
	g.IsNew = p.IsNew
	if p.Difficulty != "" {
		g.Difficulty = models.Difficulty(p.Difficulty)
	}
}

func (s *GameService) Create(ctx context.Context, p GameParams) (*models.Game, error) {
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	slug, err := s.claimSlug(ctx, p.Slug, p.Name, 0)
	if err != nil {
		return nil, err
	}

	g := &models.Game{
		Slug:       slug,
		Difficulty: models.DifficultyMedium,
		Status:     models.GameStatusActive,
	}
	p.apply(g)

	if err := s.games.Create(ctx, g, normalizeTagNames(p.Tags)); err != nil {
		return nil, mapRepoErr(err, "game", slug)
	}
	s.publish(ctx, events.TypeGameCreated, g)
	return g, nil
}

// Update replaces the game's editable fields and tag set.
func (s *GameService) Update(ctx context.Context, id uint, p GameParams) (*models.Game, error) {
	g, err := s.games.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoErr(err, "game", id)
	}
	if err := s.validate(ctx, p); err != nil {
		return nil, err
	}
	if p.Slug != "" && MakeSlug(p.Slug) != g.Slug {
		if g.Slug, err = s.claimSlug(ctx, p.Slug, p.Name, id); err != nil {
			return nil, err
		}
	}
	p.apply(g)
	g.Category = nil

	if err := s.games.Update(ctx, g, normalizeTagNames(p.Tags)); err != nil {
		return nil, mapRepoErr(err, "game", id)
	}
	s.publish(ctx, events.TypeGameUpdated, g)
	return g, nil
}

// SetActive toggles catalog visibility. Games are never hard-deleted.
func (s *GameService) SetActive(ctx context.Context, id uint, active bool) error {
	status := models.GameStatusInactive
	if active {
		status = models.GameStatusActive
	}
	if err := s.games.SetStatus(ctx, id, status); err != nil {
		return mapRepoErr(err, "game", id)
	}
	s.publish(ctx, events.TypeGameUpdated, map[string]interface{}{"id": id, "status": status})
	return nil
}

func (s *GameService) publish(ctx context.Context, typ string, payload interface{}) {
	if err := s.publisher.Publish(ctx, events.New(events.TopicGames, typ, payload)); err != nil {
		s.log.Warnw("failed to publish game event", "type", typ, "error", err)
	}
}
