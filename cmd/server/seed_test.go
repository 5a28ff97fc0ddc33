package main

import (
	"context"
	"testing"

	"gameportal/backend/internal/models"
	"gameportal/backend/internal/service"
	"gameportal/backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeedIsRepeatable(t *testing.T) {
	a := &app{db: testutil.NewTestDB(t), log: testutil.NopLogger()}
	ctx := context.Background()

	require.NoError(t, runSeed(ctx, a, true))
	require.NoError(t, runSeed(ctx, a, true))

	var achievements, categories, games int64
	require.NoError(t, a.db.Model(&models.Achievement{}).Count(&achievements).Error)
	require.NoError(t, a.db.Model(&models.Category{}).Count(&categories).Error)
	require.NoError(t, a.db.Model(&models.Game{}).Count(&games).Error)

	assert.Equal(t, int64(len(service.DefaultAchievements())), achievements)
	assert.Equal(t, int64(len(sampleCategories)), categories)
	assert.Equal(t, int64(len(sampleGames)), games)
}
