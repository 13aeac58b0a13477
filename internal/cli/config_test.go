package cli

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "epsql.yaml", `db: runs/eplusout.sql
busy_timeout: 5s
create_indexes: true
format: json
log_level: info
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Database:      "runs/eplusout.sql",
		BusyTimeout:   5 * time.Second,
		CreateIndexes: true,
		Format:        "json",
		LogLevel:      "info",
	}, cfg)
	assert.Equal(t, slog.LevelInfo, cfg.Level(false))
	assert.Equal(t, slog.LevelDebug, cfg.Level(true))
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "epsql.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
	assert.Equal(t, slog.LevelWarn, cfg.Level(false))
}

func TestLoadConfig_MissingDefaultIsEmpty(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfig_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(DefaultConfigFile, []byte("format: json\n"), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "databse: x.sql\n", "field databse not found"},
		{"bad format", "format: xml\n", "invalid format"},
		{"bad level", "log_level: loud\n", "invalid log_level"},
		{"negative timeout", "busy_timeout: -1s\n", "busy_timeout must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "epsql.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig("no-such-config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
