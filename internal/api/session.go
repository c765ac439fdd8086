package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/whiskers/pkg/handlers"
	"github.com/JaimeStill/whiskers/pkg/openapi"
	"github.com/JaimeStill/whiskers/pkg/routes"
	"github.com/JaimeStill/whiskers/pkg/sessions"
)

type sessionHandler struct {
	domain *Domain
	cfg    *sessions.Config
	logger *slog.Logger
}

func newSessionHandler(domain *Domain, cfg *sessions.Config, logger *slog.Logger) *sessionHandler {
	return &sessionHandler{
		domain: domain,
		cfg:    cfg,
		logger: logger.With("handler", "session"),
	}
}

var endSessionSpec = &openapi.Operation{
	Summary:     "End the session",
	Description: "Closes every page instance of the caller's session. Pending requests are cancelled and their responses discarded.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Number of page instances closed", "EndSessionResponse"),
	},
}

type endSessionResponse struct {
	Closed int `json:"closed"`
}

func (h *sessionHandler) routes() routes.Group {
	return routes.Group{
		Prefix:      "/session",
		Tags:        []string{"Session"},
		Description: "Per-browser page instances",
		Routes: []routes.Route{
			{Method: "DELETE", Pattern: "", Handler: h.end, OpenAPI: endSessionSpec},
		},
	}
}

func (h *sessionHandler) end(w http.ResponseWriter, r *http.Request) {
	var resp endSessionResponse

	if id, ok := sessions.Peek(r, h.cfg.CookieName); ok {
		resp.Closed = h.domain.End(id)
		h.logger.Info("session ended", "session", id, "closed", resp.Closed)
	}
	sessions.Clear(w, h.cfg)

	handlers.RespondJSON(w, http.StatusOK, resp)
}
