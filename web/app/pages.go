package app

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/internal/api"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/editor"
	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/module"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
	"github.com/JaimeStill/whiskers/pkg/web"
)

// pageData is what every page template receives as .Data.
type pageData struct {
	View    any
	Notice  *notices.Message
	APIBase string
	Catalog []editor.CatalogEntry
}

type pages struct {
	ts            *web.TemplateSet
	domain        *api.Domain
	sessions      *sessions.Config
	notices       notices.Localizer
	apiBase       string
	maxUploadSize int64
	logger        *slog.Logger
}

func newPages(ts *web.TemplateSet, domain *api.Domain, cfg *config.Config, loc notices.Localizer, logger *slog.Logger) *pages {
	return &pages{
		ts:            ts,
		domain:        domain,
		sessions:      &cfg.Sessions,
		notices:       loc,
		apiBase:       cfg.API.BasePath,
		maxUploadSize: cfg.API.MaxUploadSizeBytes(),
		logger:        logger,
	}
}

func (p *pages) register(r *web.Router) {
	r.HandleFunc("GET /{$}", p.analyzer)
	r.HandleFunc("POST /analyzer/selection", p.analyzerSelect)
	r.HandleFunc("POST /analyzer", p.analyzerSubmit)

	r.HandleFunc("GET /editor", p.editor)
	r.HandleFunc("POST /editor/selection", p.editorSelect)
	r.HandleFunc("POST /editor/process", p.editorProcess)
	r.HandleFunc("POST /editor/stickers", p.editorAddSticker)
	r.HandleFunc("POST /editor/stickers/{id}/delete", p.editorRemoveSticker)

	r.HandleFunc("GET /memes", p.memes)
	r.HandleFunc("POST /memes", p.memesGenerate)
}

func (p *pages) analyzer(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	view := p.domain.Analyzer.View(id)
	p.render(w, r, analyzerView, pageData{
		View:   view,
		Notice: p.notice(r, p.domain.Analyzer, id),
	})
}

func (p *pages) analyzerSelect(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	file, ok := p.formFile(w, r, "video", "file")
	if !ok {
		return
	}
	p.settle(p.domain.Analyzer.Select(id, file))
	p.redirect(w, r, analyzerView)
}

func (p *pages) analyzerSubmit(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	file, ok := p.formFile(w, r, "video", "file")
	if !ok {
		return
	}
	if file != nil {
		if err := p.domain.Analyzer.Select(id, file); err != nil {
			p.settle(err)
			p.redirect(w, r, analyzerView)
			return
		}
	}
	_, err := p.domain.Analyzer.Analyze(r.Context(), id)
	p.settle(err)
	p.redirect(w, r, analyzerView)
}

func (p *pages) editor(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	view := p.domain.Editor.View(id)
	p.render(w, r, editorView, pageData{
		View:    view,
		Notice:  p.notice(r, p.domain.Editor, id),
		APIBase: p.apiBase,
		Catalog: editor.Catalog(),
	})
}

func (p *pages) editorSelect(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	file, ok := p.formFile(w, r, "image", "file")
	if !ok {
		return
	}
	p.settle(p.domain.Editor.Select(id, file))
	p.redirect(w, r, editorView)
}

func (p *pages) editorProcess(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	_, err := p.domain.Editor.Process(r.Context(), id)
	p.settle(err)
	p.redirect(w, r, editorView)
}

func (p *pages) editorAddSticker(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	if _, err := p.domain.Editor.AddSticker(id, r.FormValue("name")); err != nil {
		http.Error(w, err.Error(), editor.MapHTTPStatus(err))
		return
	}
	p.redirect(w, r, editorView)
}

func (p *pages) editorRemoveSticker(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	stickerID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, editor.ErrInvalidStickerID.Error(), http.StatusBadRequest)
		return
	}
	if err := p.domain.Editor.RemoveSticker(id, stickerID); err != nil {
		http.Error(w, err.Error(), editor.MapHTTPStatus(err))
		return
	}
	p.redirect(w, r, editorView)
}

func (p *pages) memes(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	view := p.domain.Memes.View(id)
	p.render(w, r, memesView, pageData{
		View:    view,
		Notice:  p.notice(r, p.domain.Memes, id),
		APIBase: p.apiBase,
	})
}

func (p *pages) memesGenerate(w http.ResponseWriter, r *http.Request) {
	id := sessions.ID(w, r, p.sessions)
	file, ok := p.formFile(w, r, "image", "file")
	if !ok {
		return
	}
	_, err := p.domain.Memes.Generate(r.Context(), id, r.FormValue("prompt"), file)
	p.settle(err)
	p.redirect(w, r, memesView)
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, view web.ViewDef, data pageData) {
	if err := p.ts.Render(w, http.StatusOK, layout, view, data); err != nil {
		p.logger.Error("render page", "template", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// redirect sends the browser back to view after a form post.
func (p *pages) redirect(w http.ResponseWriter, r *http.Request, view web.ViewDef) {
	http.Redirect(w, r, module.PrefixFrom(r.Context())+view.Route, http.StatusSeeOther)
}

// formFile reads an optional upload. It writes the error response and returns
// false when the body cannot be read.
func (p *pages) formFile(w http.ResponseWriter, r *http.Request, fields ...string) (*upload.File, bool) {
	file, err := upload.FormFile(r, p.maxUploadSize, fields...)
	if err != nil {
		http.Error(w, err.Error(), upload.MapHTTPStatus(err))
		return nil, false
	}
	return file, true
}

// settle logs a workflow error. The workflow has already recorded the notice
// the next page render shows.
func (p *pages) settle(err error) {
	if err != nil {
		p.logger.Debug("workflow rejected", "error", err)
	}
}

type noticeSource interface {
	TakeNotice(session uuid.UUID) (upload.Notice, bool)
}

// notice pops the session's pending notice from src, localized for r.
func (p *pages) notice(r *http.Request, src noticeSource, id uuid.UUID) *notices.Message {
	n, ok := src.TakeNotice(id)
	if !ok {
		return nil
	}
	m := notices.ForRequest(p.notices, r, n)
	return &m
}
