package testutil

import (
	"testing"

	"gameportal/backend/internal/database"
	"gameportal/backend/internal/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory SQLite database with the schema migrated.
// A single connection is kept so every query sees the same memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NopLogger returns a sugared logger that discards everything.
func NopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// SeedCategory inserts a category and returns it.
func SeedCategory(t *testing.T, db *gorm.DB, slug string, sortOrder int) models.Category {
	t.Helper()
	c := models.Category{Slug: slug, Name: slug, SortOrder: sortOrder}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// SeedGame inserts a game with the given tag names, creating missing tags.
func SeedGame(t *testing.T, db *gorm.DB, g models.Game, tags ...string) models.Game {
	t.Helper()
	for _, name := range tags {
		tag := models.Tag{Name: name}
		require.NoError(t, db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error)
		g.Tags = append(g.Tags, &tag)
	}
	if g.Status == "" {
		g.Status = models.GameStatusActive
	}
	if g.Difficulty == "" {
		g.Difficulty = models.DifficultyMedium
	}
	require.NoError(t, db.Create(&g).Error)
	return g
}

// SeedUser inserts a user with the given role.
func SeedUser(t *testing.T, db *gorm.DB, externalID, role string) models.User {
	t.Helper()
	u := models.User{ExternalID: externalID, Nickname: externalID, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}
