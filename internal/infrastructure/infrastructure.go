// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies every domain system requires.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/lifecycle"
	"github.com/JaimeStill/whiskers/pkg/remote"
)

const pingTimeout = 5 * time.Second

// Infrastructure holds the core systems required by all domain modules:
// lifecycle coordination, logging, the remote service client, and the
// notice catalog.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Remote    *remote.Client
	Notices   *notices.Catalog
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := cfg.Logging.NewLogger(os.Stderr)

	catalog, err := notices.New(&cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("notices init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Remote:    remote.New(&cfg.Remote, logger),
		Notices:   catalog,
	}, nil
}

// Start registers infrastructure hooks with the lifecycle coordinator. The
// remote service is pinged at startup; an unreachable endpoint is logged and
// does not block readiness.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup(func() {
		ctx, cancel := context.WithTimeout(i.Lifecycle.Context(), pingTimeout)
		defer cancel()

		if err := i.Remote.Ping(ctx); err != nil {
			i.Logger.Warn("remote service unreachable", "error", err)
			return
		}
		i.Logger.Info("remote service reachable")
	})
	return nil
}
