package repository

import (
	"context"
	"fmt"
	"strings"

	"gameportal/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpsertByExternalID creates the user on first sight of a subject and keeps
// profile fields in sync afterwards. Role is never changed here.
func (r *GormUserRepository) UpsertByExternalID(ctx context.Context, user *models.User) (*models.User, error) {
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"nickname", "email", "avatar_url", "updated_at"}),
	}).Omit("FavoriteGames").Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	var stored models.User
	if err := r.db.WithContext(ctx).Where("external_id = ?", user.ExternalID).First(&stored).Error; err != nil {
		return nil, notFound(err)
	}
	return &stored, nil
}

func (r *GormUserRepository) List(ctx context.Context, q string, page, limit int) ([]models.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.User{})
	if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
		pattern := containsPattern(q)
		tx = tx.Where(`LOWER(nickname) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []models.User
	if err := tx.Order("id ASC").Limit(limit).Offset(offset(page, limit)).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *GormUserRepository) SetRole(ctx context.Context, id uint, role string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("failed to set role: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFavorite adds or removes the game from the user's favorites and
// reports whether it is a favorite afterwards.
func (r *GormUserRepository) ToggleFavorite(ctx context.Context, userID, gameID uint) (bool, error) {
	var isFavorite bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		// Eagerly load just the one favorite game we care about
		if err := tx.Preload("FavoriteGames", "id = ?", gameID).First(&user, userID).Error; err != nil {
			return notFound(err)
		}
		var game models.Game
		if err := tx.Where("id = ? AND status = ?", gameID, models.GameStatusActive).First(&game).Error; err != nil {
			return notFound(err)
		}

		association := tx.Model(&user).Association("FavoriteGames")
		if len(user.FavoriteGames) > 0 {
			if err := association.Delete(&game); err != nil {
				return fmt.Errorf("failed to remove from favorites: %w", err)
			}
			isFavorite = false
			return nil
		}
		if err := association.Append(&game); err != nil {
			return fmt.Errorf("failed to add to favorites: %w", err)
		}
		isFavorite = true
		return nil
	})
	return isFavorite, err
}

func (r *GormUserRepository) FavoriteIDs(ctx context.Context, userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table("user_favorite_games").
		Where("user_id = ?", userID).
		Pluck("game_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *GormUserRepository) Favorites(ctx context.Context, userID uint) ([]models.Game, error) {
	var games []models.Game
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Joins("JOIN user_favorite_games ufg ON ufg.game_id = games.id").
		Where("ufg.user_id = ? AND games.status = ?", userID, models.GameStatusActive).
		Order("games.id ASC").
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load favorite games: %w", err)
	}
	return games, nil
}
