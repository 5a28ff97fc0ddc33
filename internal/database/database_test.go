package database

import (
	"testing"

	"gameportal/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectAndMigrateSQLite(t *testing.T) {
	db, err := Connect("sqlite", "file::memory:", zap.NewNop().Sugar())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T table missing", m)
	}
	assert.True(t, db.Migrator().HasTable("game_tags"))
	assert.True(t, db.Migrator().HasTable("user_favorite_games"))
}

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "dsn", zap.NewNop().Sugar())
	assert.Error(t, err)
}
