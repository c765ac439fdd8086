package editor

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/handlers"
	"github.com/JaimeStill/whiskers/pkg/routes"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

var fileFields = []string{"file", "image"}

// Handler provides HTTP endpoints for the editor page.
type Handler struct {
	sys           System
	sessions      *sessions.Config
	notices       notices.Localizer
	maxUploadSize int64
	logger        *slog.Logger
}

// ProcessResponse is returned by a successful processing request.
type ProcessResponse struct {
	Result Result          `json:"result"`
	Notice notices.Message `json:"notice"`
}

// AddStickerRequest names the catalog sticker to place.
type AddStickerRequest struct {
	Name string `json:"name"`
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

// Routes returns the route group for editor endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/editor",
		Tags:        []string{"Editor"},
		Description: "Image captioning, sharing, and sticker overlays",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.View, OpenAPI: Spec.View},
			{Method: "POST", Pattern: "/selection", Handler: h.Select, OpenAPI: Spec.Select},
			{Method: "POST", Pattern: "/process", Handler: h.Process, OpenAPI: Spec.Process},
		},
		Children: []routes.Group{
			{
				Prefix: "/stickers",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListStickers, OpenAPI: Spec.ListStickers},
					{Method: "GET", Pattern: "/catalog", Handler: h.StickerCatalog, OpenAPI: Spec.Catalog},
					{Method: "POST", Pattern: "", Handler: h.AddSticker, OpenAPI: Spec.AddSticker},
					{Method: "PUT", Pattern: "/{id}", Handler: h.MoveSticker, OpenAPI: Spec.MoveSticker},
					{Method: "DELETE", Pattern: "/{id}", Handler: h.RemoveSticker, OpenAPI: Spec.RemoveSticker},
				},
			},
		},
	}
}

// View returns the caller's editor state.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)
	handlers.RespondJSON(w, http.StatusOK, h.sys.View(id))
}

// Select stores the uploaded image as the caller's selection.
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

// Process sends the caller's image for captioning. An image in the same
// multipart body is selected first.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.sys.Process(r.Context(), id)
	if err != nil {
		h.fail(w, r, id, err)
		return
	}

	resp := ProcessResponse{Result: result}
	if n, ok := h.sys.TakeNotice(id); ok {
		resp.Notice = notices.ForRequest(h.notices, r, n)
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

// StickerCatalog lists the stickers that can be placed.
func (h *Handler) StickerCatalog(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Catalog())
}

// ListStickers returns the caller's placed stickers.
func (h *Handler) ListStickers(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)
	stickers := h.sys.Stickers(id)
	if stickers == nil {
		stickers = []Sticker{}
	}
	handlers.RespondJSON(w, http.StatusOK, stickers)
}

// AddSticker places a catalog sticker at the center of the image.
func (h *Handler) AddSticker(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	req, err := handlers.DecodeJSON[AddStickerRequest](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	st, err := h.sys.AddSticker(id, req.Name)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, st)
}

// MoveSticker repositions a placed sticker.
func (h *Handler) MoveSticker(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	stickerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidStickerID)
		return
	}

	move, err := handlers.DecodeJSON[Move](r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	st, err := h.sys.MoveSticker(id, stickerID, move)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, st)
}

// RemoveSticker deletes a placed sticker.
func (h *Handler) RemoveSticker(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, h.sessions)

	stickerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidStickerID)
		return
	}

	if err := h.sys.RemoveSticker(id, stickerID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	var detail any
	if n, ok := h.sys.TakeNotice(id); ok {
		detail = notices.ForRequest(h.notices, r, n)
	}
	handlers.RespondErrorDetail(w, h.logger, MapHTTPStatus(err), err, detail)
}
