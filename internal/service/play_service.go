package service

import (
	"context"
	"fmt"
	"time"

	"gameportal/backend/internal/cache"
	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/metrics"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"

	"go.uber.org/zap"
)

// PlayResult reports whether a play event was counted.
type PlayResult struct {
	Counted bool
	Play    *models.PlayHistory
}

// PlayService records play sessions and maintains play counts.
type PlayService struct {
	plays        repository.PlayRepository
	dedup        cache.Deduper
	window       time.Duration
	jobs         JobSubmitter
	achievements *AchievementService
	publisher    events.Publisher
	now          func() time.Time
	log          *zap.SugaredLogger
}

type PlayServiceConfig struct {
	Plays        repository.PlayRepository
	Dedup        cache.Deduper
	DedupWindow  time.Duration
	Jobs         JobSubmitter
	Achievements *AchievementService
	Publisher    events.Publisher
}

func NewPlayService(cfg PlayServiceConfig, log *zap.SugaredLogger) *PlayService {
	dedup := cfg.Dedup
	if dedup == nil {
		dedup = cache.NoopDeduper{}
	}
	return &PlayService{
		plays:        cfg.Plays,
		dedup:        dedup,
		window:       cfg.DedupWindow,
		jobs:         cfg.Jobs,
		achievements: cfg.Achievements,
		publisher:    cfg.Publisher,
		now:          time.Now,
		log:          log.Named("plays"),
	}
}

// RecordPlay counts a play unless the same user played the same game within
// the dedup window. Dedup store failures count the play rather than lose it.
func (s *PlayService) RecordPlay(ctx context.Context, userID, gameID uint, durationSeconds int) (*PlayResult, error) {
	if durationSeconds < 0 {
		return nil, apperrors.NewValidationError("duration_seconds", "must be >= 0")
	}

	key := fmt.Sprintf("%d:%d", userID, gameID)
	first, err := s.dedup.FirstSeen(ctx, key, s.window)
	claimed := err == nil
	if err != nil {
		s.log.Warnw("dedup unavailable, counting play", "user_id", userID, "game_id", gameID, "error", err)
		first = true
	}
	if !first {
		metrics.PlaysTotal.WithLabelValues("false").Inc()
		return &PlayResult{Counted: false}, nil
	}

	play := &models.PlayHistory{
		UserID:          userID,
		GameID:          gameID,
		PlayedAt:        s.now().UTC(),
		DurationSeconds: durationSeconds,
	}
	if err := s.plays.Record(ctx, play); err != nil {
		// A play that was not stored must not hold the window.
		if claimed {
			if rerr := s.dedup.Release(ctx, key); rerr != nil {
				s.log.Warnw("failed to release dedup key", "key", key, "error", rerr)
			}
		}
		return nil, mapRepoErr(err, "game", gameID)
	}
	metrics.PlaysTotal.WithLabelValues("true").Inc()

	if s.jobs != nil && s.achievements != nil {
		s.jobs.TrySubmit(evaluateJob{svc: s.achievements, userID: userID})
	}
	ev := events.New(events.TopicPlays, events.TypePlayRecorded, map[string]interface{}{
		"user_id": userID,
		"game_id": gameID,
	})
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warnw("failed to publish play", "game_id", gameID, "error", err)
	}

	return &PlayResult{Counted: true, Play: play}, nil
}

// History returns the user's plays newest first.
func (s *PlayService) History(ctx context.Context, userID uint, page, limit int) ([]models.PlayHistory, int64, error) {
	plays, total, err := s.plays.History(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return plays, total, nil
}
