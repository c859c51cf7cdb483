package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup (stand-in for t.Chdir,
// which requires a newer Go toolchain).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	// Run from a temp dir so no stray config.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 3, cfg.LLM.MaxConcurrent)
	assert.Equal(t, 10, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 2000, cfg.Fetch.MaxChars)
	assert.Equal(t, []string{"marketing", "automated", "spam"}, cfg.Pipeline.ShortCircuitIntents)
	assert.Equal(t, 50, cfg.Pipeline.ShortMessageChars)
	assert.Equal(t, 15, cfg.Pipeline.MinDraftChars)
	assert.Equal(t, "ar", cfg.Pipeline.PrimaryLanguage)
	assert.True(t, cfg.LLM.CacheEnabled)
	assert.True(t, cfg.Analytics.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
log:
  level: debug
  format: console
server:
  port: 9090
pipeline:
  short_message_chars: 80
  primary_language: en
openai:
  model: gpt-4o-mini
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 80, cfg.Pipeline.ShortMessageChars)
	assert.Equal(t, "en", cfg.Pipeline.PrimaryLanguage)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	// Untouched keys keep defaults.
	assert.Equal(t, 15, cfg.Pipeline.MinDraftChars)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "warn", Format: "console"})
	assert.NoError(t, err)
}
