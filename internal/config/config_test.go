package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/todo-cli/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Tasks.IDStrategy != "counter" {
		t.Errorf("expected default id strategy 'counter', got %q", cfg.Tasks.IDStrategy)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Theme.ColorPrimary != "#007BFF" {
		t.Errorf("expected primary color '#007BFF', got %q", cfg.Theme.ColorPrimary)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, *DefaultConfig(), *cfg)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "Load should not create the config file")
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[tasks]
id_strategy = "uuid"

[log]
level = "debug"

[theme]
icon_add = "add"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "uuid", cfg.Tasks.IDStrategy)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "add", cfg.Theme.IconAdd)
	assert.Equal(t, DefaultThemeConfig().IconEdit, cfg.Theme.IconEdit)

	strategy, err := cfg.IDStrategy()
	require.NoError(t, err)
	assert.Equal(t, domain.IDStrategyUUID, strategy)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "warn")
	t.Setenv("TODO_TASKS_ID_STRATEGY", "uuid")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "uuid", cfg.Tasks.IDStrategy)
}

func TestLoad_InvalidIDStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tasks]\nid_strategy = \"clock\"\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tasks\nid_strategy ="), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Tasks.IDStrategy = "uuid"
	cfg.Log.File = "/tmp/todo.log"
	cfg.Theme.ColorDanger = "#aa0000"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, *cfg, *loaded)
}
