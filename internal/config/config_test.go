package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 20, cfg.History.MaxGames)
	assert.Equal(t, 5*time.Second, cfg.History.UndoTimeout)
	assert.Equal(t, "hippo", cfg.Players.DefaultWhite)
	assert.Equal(t, "squirrel", cfg.Players.DefaultBlack)
	assert.Equal(t, "localhost:8080", cfg.HTTP.Addr())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chesslog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
history:
  max_games: 5
  undo_timeout: 250ms
display:
  theme: gray
`), 0644))
	t.Setenv("CHESSLOG_HTTP_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.History.MaxGames)
	assert.Equal(t, 250*time.Millisecond, cfg.History.UndoTimeout)
	assert.Equal(t, "gray", cfg.Display.Theme)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("display:\n  theme: neon\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
