package repository

import (
	"context"
	"testing"

	"gameportal/backend/internal/models"
	"gameportal/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewGormTagRepository(db)
	ctx := context.Background()

	cat := testutil.SeedCategory(t, db, "puzzle", 1)
	testutil.SeedGame(t, db, models.Game{Slug: "a", Name: "A", CategoryID: cat.ID}, "puzzle", "brain")
	testutil.SeedGame(t, db, models.Game{Slug: "c", Name: "C", CategoryID: cat.ID}, "puzzle")
	testutil.SeedGame(t, db, models.Game{Slug: "old", Name: "Old", CategoryID: cat.ID, Status: models.GameStatusInactive}, "retro")

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, tg := range tags {
		counts[tg.Name] = tg.ActiveGames
	}
	assert.Equal(t, map[string]int64{"brain": 1, "puzzle": 2, "retro": 0}, counts)

	var brain models.Tag
	require.NoError(t, db.Where("name = ?", "brain").First(&brain).Error)

	_, err = repo.Rename(ctx, brain.ID, "Puzzle")
	assert.ErrorIs(t, err, ErrDuplicate)

	renamed, err := repo.Rename(ctx, brain.ID, " Logic ")
	require.NoError(t, err)
	assert.Equal(t, "logic", renamed.Name)

	_, err = repo.Rename(ctx, 999, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Delete(ctx, brain.ID))
	assert.ErrorIs(t, repo.Delete(ctx, brain.ID), ErrNotFound)

	var links int64
	require.NoError(t, db.Table("game_tags").Where("tag_id = ?", brain.ID).Count(&links).Error)
	assert.Zero(t, links)
}
