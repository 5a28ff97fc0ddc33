package service_test

import (
	"context"
	"testing"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"
	"gameportal/backend/internal/repository"
	"gameportal/backend/internal/service"
	"gameportal/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_SyncIdentityKeepsRole(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := repository.NewGormUserRepository(db)
	svc := service.NewUserService(users, repository.NewGormPlayRepository(db), repository.NewGormAchievementRepository(db))
	ctx := context.Background()

	u, err := svc.SyncIdentity(ctx, service.Identity{Subject: "sub-1", Nickname: "neo"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	require.NoError(t, svc.SetRole(ctx, u.ID, models.RoleAdmin))

	again, err := svc.SyncIdentity(ctx, service.Identity{Subject: "sub-1", Nickname: "trinity"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID)
	assert.Equal(t, "trinity", again.Nickname)
	assert.Equal(t, models.RoleAdmin, again.Role)

	_, err = svc.SyncIdentity(ctx, service.Identity{})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
}

func TestUserService_ProfileAndFavorites(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewUserService(
		repository.NewGormUserRepository(db),
		repository.NewGormPlayRepository(db),
		repository.NewGormAchievementRepository(db),
	)
	ctx := context.Background()
	cat := testutil.SeedCategory(t, db, "arcade", 1)
	g := testutil.SeedGame(t, db, models.Game{Slug: "pong", Name: "Pong", CategoryID: cat.ID})
	u := testutil.SeedUser(t, db, "sub-2", models.RoleUser)

	fav, err := svc.ToggleFavorite(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	ids, err := svc.FavoriteIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ids[g.ID])

	p, err := svc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "sub-2", p.User.ExternalID)
	assert.Zero(t, p.TotalPlays)
	require.Len(t, p.Favorites, 1)
	assert.Equal(t, "pong", p.Favorites[0].Slug)

	fav, err = svc.ToggleFavorite(ctx, u.ID, g.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	_, err = svc.ToggleFavorite(ctx, u.ID, 999)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestUserService_SetRoleValidation(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := service.NewUserService(repository.NewGormUserRepository(db), repository.NewGormPlayRepository(db), repository.NewGormAchievementRepository(db))

	err := svc.SetRole(context.Background(), 1, "root")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	err = svc.SetRole(context.Background(), 77, models.RoleAdmin)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}
