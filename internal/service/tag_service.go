package service

import (
	"context"
	"strings"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"
)

// TagService lists tag facets and lets admins tidy the tag vocabulary.
// Tags themselves are created implicitly when games are saved.
type TagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) *TagService {
	return &TagService{repo: repo}
}

func (s *TagService) List(ctx context.Context) ([]repository.TagWithCount, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tags, nil
}

func (s *TagService) Rename(ctx context.Context, id uint, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}
	tag, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return nil, mapRepoErr(err, "tag", id)
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id uint) error {
	return mapRepoErr(s.repo.Delete(ctx, id), "tag", id)
}
