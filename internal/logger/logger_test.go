package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONFile(t *testing.T) {
	dir := t.TempDir()

	log, err := New(dir, "debug", false)
	require.NoError(t, err)
	log.Infow("catalog ready", "games", 3)
	_ = log.Sync()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	body, err := os.ReadFile(filepath.Join(dir, "logs", entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"msg":"catalog ready"`)
	assert.Contains(t, string(body), `"games":3`)

	assert.NotNil(t, zap.L().Check(zap.InfoLevel, "check"))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(t.TempDir(), "verbose", false)
	assert.Error(t, err)
}
