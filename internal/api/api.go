// Package api assembles the JSON API module over the shared page systems.
package api

import (
	"net/http"

	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
	"github.com/JaimeStill/whiskers/pkg/middleware"
	"github.com/JaimeStill/whiskers/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure, domain *Domain) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)

	mux := http.NewServeMux()
	if err := registerRoutes(mux, domain, cfg, runtime); err != nil {
		return nil, err
	}

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(
		middleware.CORS(&cfg.API.CORS),
		middleware.Logger(runtime.Logger),
	)

	return m, nil
}
