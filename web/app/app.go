// Package app serves the server-rendered analyzer, editor, and meme pages.
package app

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/whiskers/internal/api"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
	"github.com/JaimeStill/whiskers/pkg/formatting"
	"github.com/JaimeStill/whiskers/pkg/middleware"
	"github.com/JaimeStill/whiskers/pkg/module"
	"github.com/JaimeStill/whiskers/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "layout"

var (
	analyzerView = web.ViewDef{Route: "/", Template: "analyzer.html", Title: "Cat Mood Analyzer"}
	editorView   = web.ViewDef{Route: "/editor", Template: "editor.html", Title: "Image Editor"}
	memesView    = web.ViewDef{Route: "/memes", Template: "memes.html", Title: "Meme Maker"}
	notFoundView = web.ViewDef{Route: "", Template: "not-found.html", Title: "Not Found"}
)

var funcs = template.FuncMap{
	"hasPrefix": strings.HasPrefix,
	"bytes": func(n int64) string {
		return formatting.FormatBytes(n, 1)
	},
	"yesno": func(b bool) string {
		if b {
			return "Yes"
		}
		return "No"
	},
	"pct": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 2, 64)
	},
	// Previews are data URIs built from the selected file, never user-supplied URLs.
	"mediaURL": func(s string) template.URL {
		return template.URL(s)
	},
}

// NewModule creates the app module mounted at basePath over the shared page
// systems.
func NewModule(basePath string, cfg *config.Config, infra *infrastructure.Infrastructure, domain *api.Domain) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		"templates/*.html",
		"templates/views",
		basePath,
		funcs,
		[]web.ViewDef{analyzerView, editorView, memesView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	logger := infra.Logger.With("module", "app")
	p := newPages(ts, domain, cfg, infra.Notices, logger)

	router := web.NewRouter()
	router.SetFallback(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound, logger))
	router.Handle("GET /static/", web.DistServer(staticFS, "static", "/static/"))
	p.register(router)

	m, err := module.New(basePath, router)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.Logger(logger))
	return m, nil
}
