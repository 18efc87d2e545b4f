package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/spacedefenders/internal/asset"
	"github.com/tomz197/spacedefenders/internal/game"
	"github.com/tomz197/spacedefenders/internal/input"
)

func TestGetEnvTyped(t *testing.T) {
	t.Setenv("T_INT", " 42 ")
	t.Setenv("T_BAD", "forty")
	t.Setenv("T_FLOAT", "2.5")
	t.Setenv("T_BOOL", "true")
	t.Setenv("T_DUR", "150ms")
	t.Setenv("T_LIST", " a, ,b ,")
	t.Setenv("T_EMPTY_LIST", " , ")

	assert.Equal(t, "fallback", GetEnv("T_UNSET", "fallback"))
	assert.Equal(t, 42, GetEnvInt("T_INT", 1))
	assert.Equal(t, 1, GetEnvInt("T_BAD", 1))
	assert.Equal(t, 7, GetEnvInt("T_UNSET", 7))
	assert.Equal(t, int64(42), GetEnvInt64("T_INT", 0))
	assert.InDelta(t, 2.5, GetEnvFloat("T_FLOAT", 0), 1e-9)
	assert.InDelta(t, 1.0, GetEnvFloat("T_BAD", 1), 1e-9)
	assert.True(t, GetEnvBool("T_BOOL", false))
	assert.True(t, GetEnvBool("T_BAD", true))
	assert.Equal(t, 150*time.Millisecond, GetEnvDuration("T_DUR", time.Second))
	assert.Equal(t, time.Second, GetEnvDuration("T_BAD", time.Second))
	assert.Equal(t, []string{"a", "b"}, GetEnvList("T_LIST", nil))
	assert.Equal(t, []string{"x"}, GetEnvList("T_EMPTY_LIST", []string{"x"}))
}

func TestEmptyStringIsSet(t *testing.T) {
	t.Setenv("T_EMPTY", "")
	assert.Equal(t, "", GetEnv("T_EMPTY", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PIPELINE_REPEAT", "LEADERBOARD_URL", "ALIEN_SPRITES", "PLAYER_SPRITE", "MAX_COLS", "INPUT_HOLD", "IDLE_DISCONNECT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	s := Load()
	assert.Equal(t, game.DefaultPipelineRepeat, s.PipelineRepeat)
	assert.Empty(t, s.LeaderboardURL)
	assert.Equal(t, asset.DefaultManifest(), s.Sprites)
	assert.Zero(t, s.MaxCols)
	assert.Equal(t, []string{"*"}, s.AllowedOrigins)
	assert.Equal(t, input.DefaultHoldDuration, s.InputHold)
	assert.True(t, s.IdleDisconnect)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PIPELINE_REPEAT", "3")
	t.Setenv("GAME_SEED", "99")
	t.Setenv("ALIEN_SPRITES", "a.png,b.webp")
	t.Setenv("CORS_ORIGINS", "https://example.com")
	t.Setenv("INPUT_HOLD", "250ms")
	t.Setenv("IDLE_DISCONNECT", "false")

	s := Load()
	assert.Equal(t, 3, s.PipelineRepeat)
	assert.Equal(t, int64(99), s.Seed)
	assert.Equal(t, []string{"a.png", "b.webp"}, s.Sprites.Aliens)
	assert.Equal(t, []string{"https://example.com"}, s.AllowedOrigins)
	assert.Equal(t, 250*time.Millisecond, s.InputHold)
	assert.False(t, s.IdleDisconnect)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("T_DOTENV=from-file\nT_KEEP=from-file\n"), 0o600))

	t.Setenv("T_KEEP", "from-env")
	t.Setenv("T_DOTENV", "")
	os.Unsetenv("T_DOTENV")

	used, err := LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "from-file", os.Getenv("T_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("T_KEEP"))
}

func TestLoadDotEnvMissing(t *testing.T) {
	used, err := LoadDotEnv(filepath.Join(t.TempDir(), "none.env"))
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	logger, closeFn, err := NewLogger(Settings{LogLevel: "DEBUG", LogFile: path}, "game", nil)
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())

	logger.Debug("hello", "k", 1)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewLoggerBadLevel(t *testing.T) {
	_, _, err := NewLogger(Settings{LogLevel: "loud"}, "", nil)
	assert.Error(t, err)
}
