package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, 1000.0, cfg.Render.Width)
	assert.Equal(t, 16.0, cfg.Render.FontSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Render.ExpressionTimeout)
	assert.Equal(t, 30*time.Second, cfg.Network.Timeout)
	assert.Equal(t, 2, cfg.Network.Retries)
	assert.Equal(t, 4, cfg.Network.Concurrency)
	assert.NotNil(t, cfg.Render.Fonts)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vue2img.yaml")
	content := `
render:
  width: 640
  fonts:
    Title: /fonts/title.ttf
network:
  timeout: 5s
logger:
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640.0, cfg.Render.Width)
	assert.Equal(t, 16.0, cfg.Render.FontSize, "unset keys keep their defaults")
	assert.Equal(t, "/fonts/title.ttf", cfg.Render.Fonts["title"])
	assert.Equal(t, 5*time.Second, cfg.Network.Timeout)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("VUE2IMG_RENDER_WIDTH", "320")
	t.Setenv("VUE2IMG_NETWORK_RETRIES", "0")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicit path must exist")
	assert.Nil(t, cfg)

	v := NewViper()
	cfg, err = NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 320.0, cfg.Render.Width)
	assert.Equal(t, 0, cfg.Network.Retries)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"width", func(c *Config) { c.Render.Width = 0 }, "render.width"},
		{"font size", func(c *Config) { c.Render.FontSize = -1 }, "render.font_size"},
		{"concurrency", func(c *Config) { c.Network.Concurrency = 0 }, "network.concurrency"},
		{"retries", func(c *Config) { c.Network.Retries = -1 }, "network.retries"},
		{"format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
