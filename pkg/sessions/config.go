package sessions

import (
	"fmt"
	"os"
	"time"
)

// Config holds session cookie and expiry settings.
type Config struct {
	CookieName    string `toml:"cookie_name"`
	IdleTimeout   string `toml:"idle_timeout"`
	SweepInterval string `toml:"sweep_interval"`
	Secure        bool   `toml:"secure"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	CookieName    string
	IdleTimeout   string
	SweepInterval string
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (c *Config) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// SweepIntervalDuration returns SweepInterval as a time.Duration.
func (c *Config) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
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
	if overlay.CookieName != "" {
		c.CookieName = overlay.CookieName
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.SweepInterval != "" {
		c.SweepInterval = overlay.SweepInterval
	}
	c.Secure = c.Secure || overlay.Secure
}

func (c *Config) loadDefaults() {
	if c.CookieName == "" {
		c.CookieName = "whiskers_session"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "30m"
	}
	if c.SweepInterval == "" {
		c.SweepInterval = "1m"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.CookieName != "" {
		if v := os.Getenv(env.CookieName); v != "" {
			c.CookieName = v
		}
	}
	if env.IdleTimeout != "" {
		if v := os.Getenv(env.IdleTimeout); v != "" {
			c.IdleTimeout = v
		}
	}
	if env.SweepInterval != "" {
		if v := os.Getenv(env.SweepInterval); v != "" {
			c.SweepInterval = v
		}
	}
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.IdleTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid idle_timeout: %q", c.IdleTimeout)
	}
	if d, err := time.ParseDuration(c.SweepInterval); err != nil || d <= 0 {
		return fmt.Errorf("invalid sweep_interval: %q", c.SweepInterval)
	}
	return nil
}
