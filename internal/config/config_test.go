package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasPhosphorThemeAndSaneRefresh(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "phosphor", cfg.Theme)
	assert.GreaterOrEqual(t, cfg.RefreshInterval, MinRefreshIntervalSeconds)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	assert.Equal(t, Default(), Load())
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Config{Theme: "amber", RefreshInterval: 10}
	require.NoError(t, Save(cfg))

	assert.Equal(t, cfg, Load())
}

func TestLoadClampsRefreshIntervalBelowFloor(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"theme":"blue","refresh_interval":0}`), 0o644))

	cfg := Load()
	assert.Equal(t, "blue", cfg.Theme)
	assert.Equal(t, MinRefreshIntervalSeconds, cfg.RefreshInterval)
}

func TestLoadInvalidJSONReturnsDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, DirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o644))

	assert.Equal(t, Default(), Load())
}

func TestDirOverrideWins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	override := t.TempDir()
	SetDirOverride(override)
	t.Cleanup(func() { SetDirOverride("") })

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, override, dir)
}
