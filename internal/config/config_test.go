package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{configPathEnv, forumURLEnv, checkIntervalEnv, ollamaHostEnv, ollamaModelEnv, pushbulletAPIKeyEnv, dbPathEnv} {
		t.Setenv(key, "")
	}

	cfg := Load()

	require.Contains(t, cfg.Forum.URL, "robertsspaceindustries.com")
	require.Equal(t, 10, cfg.Forum.MaxItems)
	require.Equal(t, 10*time.Minute, cfg.Scheduler.CheckInterval())
	require.Equal(t, "http://ollama:11434", cfg.Ollama.Host)
	require.Equal(t, "mistral", cfg.Ollama.Model)
	require.Empty(t, cfg.Pushbullet.APIKey)
	require.Equal(t, 3*time.Second, cfg.Forum.ListingSettle())
	require.Equal(t, 2*time.Second, cfg.Forum.ContentSettle())
	require.Equal(t, 60*time.Second, cfg.Forum.NavTimeout())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(forumURLEnv, "https://example.test/forum/1")
	t.Setenv(checkIntervalEnv, "25")
	t.Setenv(ollamaHostEnv, "http://localhost:11434")
	t.Setenv(ollamaModelEnv, "llama3")
	t.Setenv(pushbulletAPIKeyEnv, "token-123")
	t.Setenv(dbPathEnv, "/tmp/test.db")

	cfg := Load()

	require.Equal(t, "https://example.test/forum/1", cfg.Forum.URL)
	require.Equal(t, 25*time.Minute, cfg.Scheduler.CheckInterval())
	require.Equal(t, "http://localhost:11434", cfg.Ollama.Host)
	require.Equal(t, "llama3", cfg.Ollama.Model)
	require.Equal(t, "token-123", cfg.Pushbullet.APIKey)
	require.Equal(t, "/tmp/test.db", cfg.Database.Path)
}

func TestLoadInvalidIntervalKeepsDefault(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(checkIntervalEnv, "not-a-number")

	cfg := Load()

	require.Equal(t, 10, cfg.Scheduler.CheckIntervalMinutes)
}

func TestLoadYAMLFileMergedWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
forum:
  url: https://example.test/forum/42
  maxItems: 5
ollama:
  model: phi3
logging:
  level: debug
`), 0o644))

	for _, key := range []string{forumURLEnv, checkIntervalEnv, ollamaHostEnv, ollamaModelEnv, pushbulletAPIKeyEnv, dbPathEnv} {
		t.Setenv(key, "")
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	require.Equal(t, "https://example.test/forum/42", cfg.Forum.URL)
	require.Equal(t, 5, cfg.Forum.MaxItems)
	require.Equal(t, "phi3", cfg.Ollama.Model)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	require.Equal(t, "http://ollama:11434", cfg.Ollama.Host)
	require.Equal(t, 10, cfg.Scheduler.CheckIntervalMinutes)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama:\n  model: phi3\n"), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(ollamaModelEnv, "mistral:7b")

	cfg := Load()

	require.Equal(t, "mistral:7b", cfg.Ollama.Model)
}
