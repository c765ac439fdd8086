package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/whiskers/pkg/formatting"
	"github.com/JaimeStill/whiskers/pkg/middleware"
	"github.com/JaimeStill/whiskers/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "WHISKERS_CORS_ENABLED",
	Origins:          "WHISKERS_CORS_ORIGINS",
	AllowedMethods:   "WHISKERS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "WHISKERS_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "WHISKERS_CORS_EXPOSED_HEADERS",
	AllowCredentials: "WHISKERS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "WHISKERS_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "WHISKERS_OPENAPI_TITLE",
	Description: "WHISKERS_OPENAPI_DESCRIPTION",
	Path:        "WHISKERS_OPENAPI_PATH",
	ServerURL:   "WHISKERS_OPENAPI_SERVER_URL",
}

// APIConfig holds API routing, upload limits, CORS, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("WHISKERS_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("WHISKERS_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("invalid max_upload_size: must be positive")
	}
	return nil
}
