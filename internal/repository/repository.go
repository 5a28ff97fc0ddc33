package repository

import (
	"context"
	"errors"
	"time"

	"gameportal/backend/internal/catalog"
	"gameportal/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("duplicate record")

// GameRepository defines data access for games beyond catalog search.
type GameRepository interface {
	catalog.Store
	GetByID(ctx context.Context, id uint) (*models.Game, error)
	GetBySlug(ctx context.Context, slug string) (*models.Game, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, game *models.Game, tagNames []string) error
	Update(ctx context.Context, game *models.Game, tagNames []string) error
	SetStatus(ctx context.Context, id uint, status models.GameStatus) error
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]CategoryWithCount, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	MaxSortOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	DeleteIfUnused(ctx context.Context, id uint) (activeGames int64, err error)
	SwapSortOrder(ctx context.Context, aID, bID uint) error
	Neighbor(ctx context.Context, c *models.Category, up bool) (*models.Category, error)
}

// CategoryWithCount is a category plus its number of active games.
type CategoryWithCount struct {
	models.Category
	ActiveGames int64
}

// PlayRepository defines data access for play history.
type PlayRepository interface {
	Record(ctx context.Context, play *models.PlayHistory) error
	History(ctx context.Context, userID uint, page, limit int) ([]models.PlayHistory, int64, error)
	Stats(ctx context.Context, userID uint) (PlayStats, error)
}

// PlayStats aggregates a user's play history.
type PlayStats struct {
	TotalPlays    int64
	DistinctGames int64
	CategoryPlays map[uint]int64
}

// AchievementRepository defines data access for achievement definitions and grants.
type AchievementRepository interface {
	List(ctx context.Context) ([]models.Achievement, error)
	ForUser(ctx context.Context, userID uint) ([]models.UserAchievement, error)
	Grant(ctx context.Context, userID uint, achievementIDs []uint, at time.Time) ([]uint, error)
	Upsert(ctx context.Context, achievements []models.Achievement) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	UpsertByExternalID(ctx context.Context, user *models.User) (*models.User, error)
	List(ctx context.Context, q string, page, limit int) ([]models.User, int64, error)
	SetRole(ctx context.Context, id uint, role string) error
	ToggleFavorite(ctx context.Context, userID, gameID uint) (bool, error)
	FavoriteIDs(ctx context.Context, userID uint) (map[uint]bool, error)
	Favorites(ctx context.Context, userID uint) ([]models.Game, error)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// duplicate maps a translated unique violation onto ErrDuplicate.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// TagRepository defines data access for tags.
type TagRepository interface {
	List(ctx context.Context) ([]TagWithCount, error)
	Rename(ctx context.Context, id uint, name string) (*models.Tag, error)
	Delete(ctx context.Context, id uint) error
}

// TagWithCount is a tag plus its number of active games.
type TagWithCount struct {
	models.Tag
	ActiveGames int64
}
