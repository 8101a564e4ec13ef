package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv       = "VERSEPULSE_CONFIG"
	forumURLEnv         = "FORUM_URL"
	checkIntervalEnv    = "CHECK_INTERVAL"
	ollamaHostEnv       = "OLLAMA_HOST"
	ollamaModelEnv      = "OLLAMA_MODEL"
	pushbulletAPIKeyEnv = "PUSHBULLET_API_KEY"
	dbPathEnv           = "DB_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Forum      ForumConfig      `yaml:"forum"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Ollama     OllamaConfig     `yaml:"ollama"`
	Pushbullet PushbulletConfig `yaml:"pushbullet"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ForumConfig describes the scraped listing page and extraction limits.
type ForumConfig struct {
	URL                  string `yaml:"url"`
	MaxItems             int    `yaml:"maxItems"`
	ListingSettleSeconds int    `yaml:"listingSettleSeconds"`
	ContentSettleSeconds int    `yaml:"contentSettleSeconds"`
	NavTimeoutSeconds    int    `yaml:"navTimeoutSeconds"`
}

// ListingSettle is the fixed wait applied after loading the listing page.
func (f ForumConfig) ListingSettle() time.Duration {
	return time.Duration(f.ListingSettleSeconds) * time.Second
}

// ContentSettle is the longer wait applied after loading a thread page.
func (f ForumConfig) ContentSettle() time.Duration {
	return time.Duration(f.ContentSettleSeconds) * time.Second
}

// NavTimeout bounds a single page navigation.
func (f ForumConfig) NavTimeout() time.Duration {
	return time.Duration(f.NavTimeoutSeconds) * time.Second
}

// SchedulerConfig defines how often the monitor runs.
type SchedulerConfig struct {
	CheckIntervalMinutes int `yaml:"checkIntervalMinutes"`
}

// CheckInterval resolves the poll interval as a duration.
func (s SchedulerConfig) CheckInterval() time.Duration {
	return time.Duration(s.CheckIntervalMinutes) * time.Minute
}

// OllamaConfig defines how to contact the model backend.
type OllamaConfig struct {
	Host  string `yaml:"host"`
	Model string `yaml:"model"`
}

// PushbulletConfig wires the outbound push channel.
type PushbulletConfig struct {
	APIKey string `yaml:"apiKey"`
}

// DatabaseConfig describes the SQLite seen-ledger location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig carries the textual log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(forumURLEnv); v != "" {
		c.Forum.URL = v
	}

	if v := os.Getenv(checkIntervalEnv); v != "" {
		if minutes, err := strconv.Atoi(v); err != nil || minutes <= 0 {
			log.Printf("config: invalid %s=%q, keeping %d", checkIntervalEnv, v, c.Scheduler.CheckIntervalMinutes)
		} else {
			c.Scheduler.CheckIntervalMinutes = minutes
		}
	}

	if v := os.Getenv(ollamaHostEnv); v != "" {
		c.Ollama.Host = v
	}

	if v := os.Getenv(ollamaModelEnv); v != "" {
		c.Ollama.Model = v
	}

	if v := os.Getenv(pushbulletAPIKeyEnv); v != "" {
		c.Pushbullet.APIKey = v
	}

	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Forum.URL != "" {
		base.Forum.URL = override.Forum.URL
	}
	if override.Forum.MaxItems > 0 {
		base.Forum.MaxItems = override.Forum.MaxItems
	}
	if override.Forum.ListingSettleSeconds > 0 {
		base.Forum.ListingSettleSeconds = override.Forum.ListingSettleSeconds
	}
	if override.Forum.ContentSettleSeconds > 0 {
		base.Forum.ContentSettleSeconds = override.Forum.ContentSettleSeconds
	}
	if override.Forum.NavTimeoutSeconds > 0 {
		base.Forum.NavTimeoutSeconds = override.Forum.NavTimeoutSeconds
	}

	if override.Scheduler.CheckIntervalMinutes > 0 {
		base.Scheduler.CheckIntervalMinutes = override.Scheduler.CheckIntervalMinutes
	}

	if override.Ollama.Host != "" {
		base.Ollama.Host = override.Ollama.Host
	}
	if override.Ollama.Model != "" {
		base.Ollama.Model = override.Ollama.Model
	}

	if override.Pushbullet.APIKey != "" {
		base.Pushbullet.APIKey = override.Pushbullet.APIKey
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Forum: ForumConfig{
			URL:                  "https://robertsspaceindustries.com/spectrum/community/SC/forum/190048",
			MaxItems:             10,
			ListingSettleSeconds: 3,
			ContentSettleSeconds: 2,
			NavTimeoutSeconds:    60,
		},
		Scheduler:  SchedulerConfig{CheckIntervalMinutes: 10},
		Ollama:     OllamaConfig{Host: "http://ollama:11434", Model: "mistral"},
		Pushbullet: PushbulletConfig{APIKey: ""},
		Database:   DatabaseConfig{Path: "/app/data/versepulse.db"},
		Logging:    LoggingConfig{Level: "info"},
	}
}
