package openapi

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config controls how the generated document is described and served.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	// Path is where the module serves the document, relative to its prefix.
	Path string `toml:"path"`
	// ServerURL is advertised in the servers list. Empty means the module prefix.
	ServerURL string `toml:"server_url"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
	Path        string
	ServerURL   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, src := range map[*string]string{
		&c.Title:       overlay.Title,
		&c.Description: overlay.Description,
		&c.Path:        overlay.Path,
		&c.ServerURL:   overlay.ServerURL,
	} {
		if src != "" {
			*dst = src
		}
	}
}

// Server returns the URL to list under servers, falling back to prefix.
func (c *Config) Server(prefix string) string {
	if c.ServerURL != "" {
		return c.ServerURL
	}
	return prefix
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "Whiskers API"
	}
	if c.Description == "" {
		c.Description = "Cat mood analysis, image captioning with stickers, and meme generation backed by a remote inference service."
	}
	if c.Path == "" {
		c.Path = "/openapi.json"
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	for dst, key := range map[*string]string{
		&c.Title:       env.Title,
		&c.Description: env.Description,
		&c.Path:        env.Path,
		&c.ServerURL:   env.ServerURL,
	} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Path, "/") || strings.ContainsAny(c.Path, " {}") {
		return fmt.Errorf("openapi path must be an absolute route: %q", c.Path)
	}
	if c.ServerURL != "" {
		u, err := url.Parse(c.ServerURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("openapi server_url must be absolute: %q", c.ServerURL)
		}
	}
	return nil
}
