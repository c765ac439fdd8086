package main

import (
	"time"

	"github.com/JaimeStill/whiskers/internal/api"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
)

// Server owns the infrastructure, page systems, mounted modules, and HTTP listener.
type Server struct {
	cfg     *config.Config
	infra   *infrastructure.Infrastructure
	domain  *api.Domain
	modules *Modules
	http    *httpServer
}

// NewServer builds every subsystem from cfg without starting any of them.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	domain := api.NewDomain(cfg, infra)

	modules, err := NewModules(infra, cfg, domain)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	if err := modules.Mount(router); err != nil {
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Modules(),
	)

	return &Server{
		cfg:     cfg,
		infra:   infra,
		domain:  domain,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start registers lifecycle hooks, starts the session sweepers, and begins
// listening.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	s.domain.Start(s.cfg, s.infra)

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops the listener and closes every open page instance.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		return err
	}
	s.infra.Logger.Info("whiskers stopped")
	return nil
}
