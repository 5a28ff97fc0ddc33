package service

import (
	"context"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"
)

// Profile is the signed-in user's summary.
type Profile struct {
	User             models.User
	TotalPlays       int64
	DistinctGames    int64
	AchievementCount int
	Favorites        []models.Game
}

// Identity is the verified subset of a bearer token used to sync a local user.
type Identity struct {
	Subject   string
	Nickname  string
	Email     string
	AvatarURL string
}

// UserService covers identity sync, profiles, favorites and role management.
type UserService struct {
	users        repository.UserRepository
	plays        repository.PlayRepository
	achievements repository.AchievementRepository
}

func NewUserService(users repository.UserRepository, plays repository.PlayRepository, achievements repository.AchievementRepository) *UserService {
	return &UserService{users: users, plays: plays, achievements: achievements}
}

// SyncIdentity returns the local user for a token subject, creating it on first sight.
func (s *UserService) SyncIdentity(ctx context.Context, id Identity) (*models.User, error) {
	if id.Subject == "" {
		return nil, apperrors.NewUnauthorizedError("token has no subject")
	}
	u, err := s.users.UpsertByExternalID(ctx, &models.User{
		ExternalID: id.Subject,
		Nickname:   id.Nickname,
		Email:      id.Email,
		AvatarURL:  id.AvatarURL,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	return u, mapRepoErr(err, "user", id)
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, "user", userID)
	}
	stats, err := s.plays.Stats(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	unlocked, err := s.achievements.ForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	favorites, err := s.users.Favorites(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Profile{
		User:             *u,
		TotalPlays:       stats.TotalPlays,
		DistinctGames:    stats.DistinctGames,
		AchievementCount: len(unlocked),
		Favorites:        favorites,
	}, nil
}

// ToggleFavorite flips the game's favorite state and returns the new state.
func (s *UserService) ToggleFavorite(ctx context.Context, userID, gameID uint) (bool, error) {
	fav, err := s.users.ToggleFavorite(ctx, userID, gameID)
	if err != nil {
		return false, mapRepoErr(err, "game", gameID)
	}
	return fav, nil
}

// FavoriteIDs returns the set of game ids the user marked as favorite.
func (s *UserService) FavoriteIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	ids, err := s.users.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return ids, nil
}

func (s *UserService) List(ctx context.Context, q string, page, limit int) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, q, page, limit)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return users, total, nil
}

func (s *UserService) SetRole(ctx context.Context, id uint, role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return apperrors.NewValidationError("role", "must be one of: user admin")
	}
	return mapRepoErr(s.users.SetRole(ctx, id, role), "user", id)
}
