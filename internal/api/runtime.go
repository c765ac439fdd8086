package api

import (
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
	"github.com/JaimeStill/whiskers/pkg/sessions"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Sessions      *sessions.Config
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Remote:    infra.Remote,
			Notices:   infra.Notices,
		},
		Sessions:      &cfg.Sessions,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}
}
