package notices

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
)

// Config selects the language used when a caller expresses no preference.
type Config struct {
	DefaultLanguage string `toml:"default_language"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	DefaultLanguage string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en"
	}
	if env != nil && env.DefaultLanguage != "" {
		if v := os.Getenv(env.DefaultLanguage); v != "" {
			c.DefaultLanguage = v
		}
	}
	if _, err := language.Parse(c.DefaultLanguage); err != nil {
		return fmt.Errorf("invalid default_language %q: %w", c.DefaultLanguage, err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultLanguage != "" {
		c.DefaultLanguage = overlay.DefaultLanguage
	}
}
