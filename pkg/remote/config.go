package remote

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/JaimeStill/whiskers/pkg/formatting"
)

// Config holds the endpoints of the remote analysis and generation service.
type Config struct {
	AnalyzerURL  string `toml:"analyzer_url"`
	ProcessorURL string `toml:"processor_url"`
	GeneratorURL string `toml:"generator_url"`
	Timeout      string `toml:"timeout"`
	// FetchTimeout bounds an image download. It applies even when Timeout is
	// empty, since concurrent downloads of one URL share a single request.
	FetchTimeout string `toml:"fetch_timeout"`
	MaxImageSize string `toml:"max_image_size"`
	UserAgent    string `toml:"user_agent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	AnalyzerURL  string
	ProcessorURL string
	GeneratorURL string
	Timeout      string
	FetchTimeout string
	MaxImageSize string
	UserAgent    string
}

// TimeoutDuration returns Timeout as a time.Duration. Zero means no timeout.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// FetchTimeoutDuration returns FetchTimeout as a time.Duration.
func (c *Config) FetchTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.FetchTimeout)
	return d
}

// MaxImageBytes returns MaxImageSize in bytes.
func (c *Config) MaxImageBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxImageSize)
	return n
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.AnalyzerURL != "" {
		c.AnalyzerURL = overlay.AnalyzerURL
	}
	if overlay.ProcessorURL != "" {
		c.ProcessorURL = overlay.ProcessorURL
	}
	if overlay.GeneratorURL != "" {
		c.GeneratorURL = overlay.GeneratorURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.FetchTimeout != "" {
		c.FetchTimeout = overlay.FetchTimeout
	}
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
	if overlay.UserAgent != "" {
		c.UserAgent = overlay.UserAgent
	}
}

func (c *Config) loadDefaults() {
	if c.AnalyzerURL == "" {
		c.AnalyzerURL = "http://localhost:5000/api/upload"
	}
	if c.ProcessorURL == "" {
		c.ProcessorURL = "http://localhost:8000/process_image"
	}
	if c.GeneratorURL == "" {
		c.GeneratorURL = "http://localhost:8000/generate_image"
	}
	if c.FetchTimeout == "" {
		c.FetchTimeout = "1m"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "20MB"
	}
	if c.UserAgent == "" {
		c.UserAgent = "whiskers"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	set(env.AnalyzerURL, &c.AnalyzerURL)
	set(env.ProcessorURL, &c.ProcessorURL)
	set(env.GeneratorURL, &c.GeneratorURL)
	set(env.Timeout, &c.Timeout)
	set(env.FetchTimeout, &c.FetchTimeout)
	set(env.MaxImageSize, &c.MaxImageSize)
	set(env.UserAgent, &c.UserAgent)
}

func (c *Config) validate() error {
	for name, raw := range map[string]string{
		"analyzer_url":  c.AnalyzerURL,
		"processor_url": c.ProcessorURL,
		"generator_url": c.GeneratorURL,
	} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid %s: scheme must be http or https", name)
		}
		if u.Host == "" {
			return fmt.Errorf("invalid %s: missing host", name)
		}
	}
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("invalid timeout: must not be negative")
		}
	}
	if d, err := time.ParseDuration(c.FetchTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid fetch_timeout: %q must be a positive duration", c.FetchTimeout)
	}
	if n, err := formatting.ParseBytes(c.MaxImageSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_image_size: %q", c.MaxImageSize)
	}
	return nil
}
