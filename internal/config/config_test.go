package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestFindConfigPathWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`{}`), 0o644))

	path, dir, err := FindConfigPath(nested)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, FileName), path)
	require.Equal(t, root, dir)
}

func TestFindConfigPathMissing(t *testing.T) {
	_, _, err := FindConfigPath(t.TempDir())
	// 临时目录的上级里也可能有 config.json，只在确实没找到时检查错误
	if err != nil {
		require.ErrorIs(t, err, ErrNotFound)
	}
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"addr":":9000","engine_depth":6,"web_dir":"static","log_level":"debug"}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, 6, cfg.EngineDepth)
	require.Equal(t, filepath.Join(dir, "static"), cfg.WebDir)
	require.Equal(t, zerolog.DebugLevel, cfg.Level())
	require.Equal(t, Default().MCTSSimulations, cfg.MCTSSimulations)
	require.Equal(t, 3*time.Second, cfg.EngineTime())
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadConfig(filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(bad, []byte(`{"addr":`), 0o644))
	_, err = LoadConfig(bad)
	require.Error(t, err)
}

func TestLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	require.Equal(t, zerolog.InfoLevel, cfg.Level())
}
