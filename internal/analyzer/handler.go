package analyzer

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/handlers"
	"github.com/JaimeStill/whiskers/pkg/remote"
	"github.com/JaimeStill/whiskers/pkg/routes"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

var fileFields = []string{"video", "file"}

// Handler provides HTTP endpoints for the analyzer page.
type Handler struct {
	sys           System
	sessions      *sessions.Config
	notices       notices.Localizer
	maxUploadSize int64
	logger        *slog.Logger
}

// AnalyzeResponse is returned by a successful analysis.
type AnalyzeResponse struct {
	Analysis remote.MoodAnalysis `json:"analysis"`
	Notice   notices.Message     `json:"notice"`
}

// NewHandler creates a Handler.
func NewHandler(sys System, sess *sessions.Config, loc notices.Localizer, maxUploadSize int64, logger *slog.Logger) *Handler {
	return &Handler{
		sys:           sys,
		sessions:      sess,
		notices:       loc,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("handler", Action),
	}
}

// Routes returns the route group for analyzer endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/analyzer",
		Tags:        []string{"Analyzer"},
		Description: "Cat mood analysis from video or audio clips",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.View, OpenAPI: Spec.View},
			{Method: "POST", Pattern: "/selection", Handler: h.Select, OpenAPI: Spec.Select},
			{Method: "POST", Pattern: "", Handler: h.Analyze, OpenAPI: Spec.Analyze},
		},
	}
}

// View returns the caller's analyzer state.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)
	handlers.RespondJSON(w, http.StatusOK, h.sys.View(id))
}

// Select stores the uploaded clip as the caller's selection.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	file, err := upload.FormFile(r, h.maxUploadSize, fileFields...)
	if err != nil {
		handlers.RespondError(w, h.logger, upload.MapHTTPStatus(err), err)
		return
	}

	if err := h.sys.Select(id, file); err != nil {
		h.fail(w, r, id, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.View(id))
}

// Analyze submits the caller's selection. A clip in the same multipart body is
// selected first.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	file, err := upload.FormFile(r, h.maxUploadSize, fileFields...)
	if err != nil {
		handlers.RespondError(w, h.logger, upload.MapHTTPStatus(err), err)
		return
	}
	if file != nil {
		if err := h.sys.Select(id, file); err != nil {
			h.fail(w, r, id, err)
			return
		}
	}

	result, err := h.sys.Analyze(r.Context(), id)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	resp := AnalyzeResponse{Analysis: result}
	if n, ok := h.sys.TakeNotice(id); ok {
		resp.Notice = notices.ForRequest(h.notices, r, n)
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	var detail any
	if n, ok := h.sys.TakeNotice(id); ok {
		detail = notices.ForRequest(h.notices, r, n)
	}
	handlers.RespondErrorDetail(w, h.logger, upload.MapHTTPStatus(err), err, detail)
}
