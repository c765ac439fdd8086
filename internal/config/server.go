package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

var serverEnv = &ServerEnv{
	Host:              "WHISKERS_SERVER_HOST",
	Port:              "WHISKERS_SERVER_PORT",
	ReadHeaderTimeout: "WHISKERS_SERVER_READ_HEADER_TIMEOUT",
	ReadTimeout:       "WHISKERS_SERVER_READ_TIMEOUT",
	WriteTimeout:      "WHISKERS_SERVER_WRITE_TIMEOUT",
	IdleTimeout:       "WHISKERS_SERVER_IDLE_TIMEOUT",
	ShutdownTimeout:   "WHISKERS_SERVER_SHUTDOWN_TIMEOUT",
}

// ServerConfig holds HTTP listener parameters. Read and write timeouts cover a
// whole upload or a whole generation round trip, so they default high.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	ReadHeaderTimeout string `toml:"read_header_timeout"`
	ReadTimeout       string `toml:"read_timeout"`
	WriteTimeout      string `toml:"write_timeout"`
	IdleTimeout       string `toml:"idle_timeout"`
	ShutdownTimeout   string `toml:"shutdown_timeout"`
}

// ServerEnv maps config fields to environment variable names for override injection.
type ServerEnv struct {
	Host              string
	Port              string
	ReadHeaderTimeout string
	ReadTimeout       string
	WriteTimeout      string
	IdleTimeout       string
	ShutdownTimeout   string
}

// ServerTimeouts is the parsed form of the timeout fields.
type ServerTimeouts struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeouts parses the timeout fields. Values are validated by Finalize.
func (c *ServerConfig) Timeouts() ServerTimeouts {
	parse := func(s string) time.Duration {
		d, _ := time.ParseDuration(s)
		return d
	}
	return ServerTimeouts{
		ReadHeader: parse(c.ReadHeaderTimeout),
		Read:       parse(c.ReadTimeout),
		Write:      parse(c.WriteTimeout),
		Idle:       parse(c.IdleTimeout),
		Shutdown:   parse(c.ShutdownTimeout),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize(env *ServerEnv) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, src := range c.durations(overlay) {
		if src != "" {
			*dst = src
		}
	}
}

func (c *ServerConfig) durations(src *ServerConfig) map[*string]string {
	return map[*string]string{
		&c.ReadHeaderTimeout: src.ReadHeaderTimeout,
		&c.ReadTimeout:       src.ReadTimeout,
		&c.WriteTimeout:      src.WriteTimeout,
		&c.IdleTimeout:       src.IdleTimeout,
		&c.ShutdownTimeout:   src.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	defaults := &ServerConfig{
		ReadHeaderTimeout: "10s",
		ReadTimeout:       "2m",
		WriteTimeout:      "10m",
		IdleTimeout:       "2m",
		ShutdownTimeout:   "30s",
	}
	for dst, def := range c.durations(defaults) {
		if *dst == "" {
			*dst = def
		}
	}
}

func (c *ServerConfig) loadEnv(env *ServerEnv) error {
	if v := os.Getenv(env.Host); env.Host != "" && v != "" {
		c.Host = v
	}
	if v := os.Getenv(env.Port); env.Port != "" && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env.Port, err)
		}
		c.Port = port
	}
	for dst, key := range map[*string]string{
		&c.ReadHeaderTimeout: env.ReadHeaderTimeout,
		&c.ReadTimeout:       env.ReadTimeout,
		&c.WriteTimeout:      env.WriteTimeout,
		&c.IdleTimeout:       env.IdleTimeout,
		&c.ShutdownTimeout:   env.ShutdownTimeout,
	} {
		if key == "" {
			continue
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	return nil
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, v := range map[string]string{
		"read_header_timeout": c.ReadHeaderTimeout,
		"read_timeout":        c.ReadTimeout,
		"write_timeout":       c.WriteTimeout,
		"idle_timeout":        c.IdleTimeout,
		"shutdown_timeout":    c.ShutdownTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid %s: %s is negative", name, v)
		}
	}
	return nil
}
