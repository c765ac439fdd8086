// Package config loads the service configuration from config.toml, an optional
// environment overlay, a .env file, and WHISKERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/whiskers/internal/editor"
	"github.com/JaimeStill/whiskers/internal/memes"
	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/remote"
	"github.com/JaimeStill/whiskers/pkg/sessions"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvWhiskersEnv             = "WHISKERS_ENV"
	EnvWhiskersShutdownTimeout = "WHISKERS_SHUTDOWN_TIMEOUT"
	EnvWhiskersVersion         = "WHISKERS_VERSION"
)

var remoteEnv = &remote.Env{
	AnalyzerURL:  "WHISKERS_REMOTE_ANALYZER_URL",
	ProcessorURL: "WHISKERS_REMOTE_PROCESSOR_URL",
	GeneratorURL: "WHISKERS_REMOTE_GENERATOR_URL",
	Timeout:      "WHISKERS_REMOTE_TIMEOUT",
	FetchTimeout: "WHISKERS_REMOTE_FETCH_TIMEOUT",
	MaxImageSize: "WHISKERS_REMOTE_MAX_IMAGE_SIZE",
	UserAgent:    "WHISKERS_REMOTE_USER_AGENT",
}

var sessionsEnv = &sessions.Env{
	CookieName:    "WHISKERS_SESSION_COOKIE_NAME",
	IdleTimeout:   "WHISKERS_SESSION_IDLE_TIMEOUT",
	SweepInterval: "WHISKERS_SESSION_SWEEP_INTERVAL",
}

var generationEnv = &memes.GenerationEnv{
	Width:             "WHISKERS_GENERATION_WIDTH",
	Height:            "WHISKERS_GENERATION_HEIGHT",
	NumInferenceSteps: "WHISKERS_GENERATION_NUM_INFERENCE_STEPS",
	NegativePrompt:    "WHISKERS_GENERATION_NEGATIVE_PROMPT",
	Seed:              "WHISKERS_GENERATION_SEED",
}

var shareEnv = &editor.ShareEnv{
	BaseURL: "WHISKERS_SHARE_BASE_URL",
}

var localeEnv = &notices.Env{
	DefaultLanguage: "WHISKERS_DEFAULT_LANGUAGE",
}

// Config is the root configuration for the Whiskers service and CLI.
type Config struct {
	Server          ServerConfig           `toml:"server"`
	API             APIConfig              `toml:"api"`
	Remote          remote.Config          `toml:"remote"`
	Sessions        sessions.Config        `toml:"sessions"`
	Generation      memes.GenerationConfig `toml:"generation"`
	Share           editor.ShareConfig     `toml:"share"`
	Locale          notices.Config         `toml:"locale"`
	Logging         LoggingConfig          `toml:"logging"`
	ShutdownTimeout string                 `toml:"shutdown_timeout"`
	Version         string                 `toml:"version"`
}

// Env returns the WHISKERS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvWhiskersEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present) into the process environment, then the base
// config (if present), applies any environment overlay, and finalizes all
// values. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Parse decodes a TOML document into a Config without finalizing it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Remote.Merge(&overlay.Remote)
	c.Sessions.Merge(&overlay.Sessions)
	c.Generation.Merge(&overlay.Generation)
	c.Share.Merge(&overlay.Share)
	c.Locale.Merge(&overlay.Locale)
	c.Logging.Merge(&overlay.Logging)
}

// Finalize applies defaults, environment overrides, and validation to every
// section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(serverEnv); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Remote.Finalize(remoteEnv); err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	if err := c.Sessions.Finalize(sessionsEnv); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	if err := c.Generation.Finalize(generationEnv); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Share.Finalize(shareEnv); err != nil {
		return fmt.Errorf("share: %w", err)
	}
	if err := c.Locale.Finalize(localeEnv); err != nil {
		return fmt.Errorf("locale: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvWhiskersShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvWhiskersVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func overlayPath() string {
	if env := os.Getenv(EnvWhiskersEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
