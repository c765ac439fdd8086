package api

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/JaimeStill/whiskers/internal/analyzer"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/editor"
	"github.com/JaimeStill/whiskers/internal/memes"
	"github.com/JaimeStill/whiskers/pkg/openapi"
	"github.com/JaimeStill/whiskers/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	groups := []routes.Group{
		analyzer.NewHandler(domain.Analyzer, runtime.Sessions, runtime.Notices, runtime.MaxUploadSize, runtime.Logger).Routes(),
		editor.NewHandler(domain.Editor, runtime.Sessions, runtime.Notices, runtime.MaxUploadSize, runtime.Logger).Routes(),
		memes.NewHandler(domain.Memes, runtime.Sessions, runtime.Notices, runtime.MaxUploadSize, runtime.Logger).Routes(),
		newSessionHandler(domain, runtime.Sessions, runtime.Logger).routes(),
	}

	routes.Register(mux, groups...)

	spec, err := buildSpec(cfg, groups)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET "+cfg.API.OpenAPI.Path, openapi.ServeSpec(spec))
	return nil
}

func buildSpec(cfg *config.Config, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.Server(cfg.API.BasePath))

	schemas := map[string]*openapi.Schema{
		"EndSessionResponse": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"closed": {Type: "integer"}},
		},
	}
	maps.Copy(schemas, analyzer.Spec.Schemas)
	maps.Copy(schemas, editor.Spec.Schemas)
	maps.Copy(schemas, memes.Spec.Schemas)
	spec.Components.AddSchemas(schemas)

	routes.Describe(spec, "", groups...)

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi: %w", err)
	}
	return data, nil
}
