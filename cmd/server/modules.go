package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/whiskers/internal/api"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
	"github.com/JaimeStill/whiskers/pkg/module"
	"github.com/JaimeStill/whiskers/web/app"
)

const appPrefix = "/app"

// Modules holds the prefix-mounted HTTP modules.
type Modules struct {
	API *module.Module
	App *module.Module
}

// NewModules creates the API and app modules over the shared page systems.
func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config, domain *api.Domain) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(appPrefix, cfg, infra, domain)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

// Mount registers every module on router.
func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API, m.App)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.Handle("GET /{$}", http.RedirectHandler(appPrefix+"/", http.StatusFound))

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
