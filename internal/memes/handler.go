package memes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/handlers"
	"github.com/JaimeStill/whiskers/pkg/routes"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

var fileFields = []string{"image", "file"}

// Handler provides HTTP endpoints for the meme maker.
type Handler struct {
	sys           System
	sessions      *sessions.Config
	notices       notices.Localizer
	maxUploadSize int64
	logger        *slog.Logger
}

// GenerateRequest is the JSON body accepted by the generate endpoint.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is returned by a successful generation.
type GenerateResponse struct {
	Result Result          `json:"result"`
	Notice notices.Message `json:"notice"`
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

// Routes returns the route group for meme endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/memes",
		Tags:        []string{"Memes"},
		Description: "Meme generation from a text prompt",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.View, OpenAPI: Spec.View},
			{Method: "POST", Pattern: "", Handler: h.Generate, OpenAPI: Spec.Generate},
			{Method: "GET", Pattern: "/download", Handler: h.Download, OpenAPI: Spec.Download},
		},
	}
}

// View returns the caller's meme state.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)
	handlers.RespondJSON(w, http.StatusOK, h.sys.View(id))
}

// Generate submits a prompt, from JSON or a multipart form with an optional
// reference image.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	var (
		prompt string
		image  *upload.File
	)

	if upload.IsMultipart(r) {
		file, err := upload.FormFile(r, h.maxUploadSize, fileFields...)
		if err != nil {
			handlers.RespondError(w, h.logger, upload.MapHTTPStatus(err), err)
			return
		}
		image = file
		prompt = r.FormValue("prompt")
	} else {
		req, err := handlers.DecodeJSON[GenerateRequest](r)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
		prompt = req.Prompt
	}

	result, err := h.sys.Generate(r.Context(), id, prompt, image)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	resp := GenerateResponse{Result: result}
	if n, ok := h.sys.TakeNotice(id); ok {
		resp.Notice = notices.ForRequest(h.notices, r, n)
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Download streams the last generated meme as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	dl, err := h.sys.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	contentType := dl.ContentType
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+dl.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(dl.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(dl.Data)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	var detail any
	if n, ok := h.sys.TakeNotice(id); ok {
		detail = notices.ForRequest(h.notices, r, n)
	}
	handlers.RespondErrorDetail(w, h.logger, MapHTTPStatus(err), err, detail)
}
