package service

import (
	"context"
	"time"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/metrics"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"

	"go.uber.org/zap"
)

// DefaultAchievements are installed by the seed command.
func DefaultAchievements() []models.Achievement {
	return []models.Achievement{
		{Code: "first-play", Name: "First Steps", Description: "Play your first game.", Icon: "footprints", Rule: models.RuleTotalPlays, Threshold: 1},
		{Code: "regular", Name: "Regular", Description: "Play 25 games.", Icon: "joystick", Rule: models.RuleTotalPlays, Threshold: 25},
		{Code: "marathon", Name: "Marathon", Description: "Play 100 games.", Icon: "trophy", Rule: models.RuleTotalPlays, Threshold: 100},
		{Code: "explorer", Name: "Explorer", Description: "Try 5 different games.", Icon: "compass", Rule: models.RuleDistinctGames, Threshold: 5},
		{Code: "collector", Name: "Collector", Description: "Try 20 different games.", Icon: "gem", Rule: models.RuleDistinctGames, Threshold: 20},
	}
}

// AchievementService evaluates and reports badges.
type AchievementService struct {
	repo      repository.AchievementRepository
	plays     repository.PlayRepository
	publisher events.Publisher
	now       func() time.Time
	log       *zap.SugaredLogger
}

func NewAchievementService(repo repository.AchievementRepository, plays repository.PlayRepository, publisher events.Publisher, log *zap.SugaredLogger) *AchievementService {
	return &AchievementService{
		repo:      repo,
		plays:     plays,
		publisher: publisher,
		now:       time.Now,
		log:       log.Named("achievements"),
	}
}

func (s *AchievementService) List(ctx context.Context) ([]models.Achievement, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

func (s *AchievementService) ForUser(ctx context.Context, userID uint) ([]models.UserAchievement, error) {
	list, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// Seed installs or refreshes the default definitions.
func (s *AchievementService) Seed(ctx context.Context) error {
	return s.repo.Upsert(ctx, DefaultAchievements())
}

func progress(a models.Achievement, stats repository.PlayStats) int64 {
	switch a.Rule {
	case models.RuleTotalPlays:
		return stats.TotalPlays
	case models.RuleDistinctGames:
		return stats.DistinctGames
	case models.RuleCategoryPlays:
		if a.CategoryID == nil {
			return 0
		}
		return stats.CategoryPlays[*a.CategoryID]
	}
	return 0
}

// Evaluate grants every achievement the user now qualifies for and returns
// the newly unlocked ones. Running it again grants nothing new.
func (s *AchievementService) Evaluate(ctx context.Context, userID uint) ([]models.Achievement, error) {
	stats, err := s.plays.Stats(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	held, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	have := make(map[uint]bool, len(held))
	for _, ua := range held {
		have[ua.AchievementID] = true
	}

	byID := make(map[uint]models.Achievement)
	var candidates []uint
	for _, a := range defs {
		if have[a.ID] || progress(a, stats) < a.Threshold {
			continue
		}
		byID[a.ID] = a
		candidates = append(candidates, a.ID)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	granted, err := s.repo.Grant(ctx, userID, candidates, s.now().UTC())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	unlocked := make([]models.Achievement, 0, len(granted))
	for _, id := range granted {
		a := byID[id]
		unlocked = append(unlocked, a)
		metrics.AchievementsUnlockedTotal.Inc()
		ev := events.New(events.TopicAchievements, events.TypeAchievementUnlocked, map[string]interface{}{
			"user_id": userID,
			"code":    a.Code,
		})
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.log.Warnw("failed to publish unlock", "user_id", userID, "code", a.Code, "error", err)
		}
	}
	if len(unlocked) > 0 {
		s.log.Infow("achievements unlocked", "user_id", userID, "count", len(unlocked))
	}
	return unlocked, nil
}

// evaluateJob runs Evaluate on the worker pool after a counted play.
type evaluateJob struct {
	svc    *AchievementService
	userID uint
}

func (j evaluateJob) Name() string { return "evaluate-achievements" }

func (j evaluateJob) Run(ctx context.Context) error {
	_, err := j.svc.Evaluate(ctx, j.userID)
	return err
}
