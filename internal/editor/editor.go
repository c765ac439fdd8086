// Package editor captions an uploaded image through the remote processor and
// lets the user decorate it with draggable stickers.
package editor

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/lifecycle"
	"github.com/JaimeStill/whiskers/pkg/overlay"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

// Action names the editor workflow in notices and logs.
const Action = "editor"

// Accept lists the media type prefixes the editor takes.
var Accept = []string{"image/"}

// Client is the remote call the editor depends on.
type Client interface {
	ProcessImage(ctx context.Context, file *upload.File) (string, error)
}

// Result is a processed image's generated text plus links for sharing it.
type Result struct {
	GeneratedText string      `json:"generated_text"`
	ShareURL      string      `json:"share_url"`
	ShareLinks    []ShareLink `json:"share_links"`
}

// NewWorkflow builds the editor's upload workflow around client.
func NewWorkflow(client Client, share *ShareConfig, opts ...upload.Option) *upload.Workflow[Result] {
	return upload.New(
		Action,
		upload.All(upload.AcceptFile(Accept...)),
		func(ctx context.Context, sel upload.Selection) (Result, error) {
			text, err := client.ProcessImage(ctx, sel.File)
			if err != nil {
				return Result{}, err
			}
			shareURL := share.ShareURL(text)
			return Result{
				GeneratedText: text,
				ShareURL:      shareURL,
				ShareLinks:    share.Links(shareURL, text),
			}, nil
		},
		opts...,
	)
}

// View is the editor page state for one session.
type View struct {
	File      *upload.FileInfo      `json:"file,omitempty"`
	Preview   string                `json:"-"`
	Stickers  []Sticker             `json:"stickers"`
	Status    upload.Status[Result] `json:"status"`
	CanSubmit bool                  `json:"can_submit"`
}

type page struct {
	workflow *upload.Workflow[Result]

	mu       sync.Mutex
	file     *upload.File
	stickers []Sticker
}

func (p *page) Close() {
	p.workflow.Close()
}

type system struct {
	pages  *sessions.Store[*page]
	logger *slog.Logger
}

// New creates the editor System.
func New(client Client, share *ShareConfig, idle time.Duration, logger *slog.Logger) System {
	logger = logger.With("system", Action)
	return &system{
		pages: sessions.NewStore(Action, func(id uuid.UUID) *page {
			return &page{
				workflow: NewWorkflow(client, share, upload.WithLogger(logger.With("session", id))),
			}
		}, idle, logger),
		logger: logger,
	}
}

// Select replaces the image. Stickers placed on the previous image are cleared.
func (s *system) Select(session uuid.UUID, file *upload.File) error {
	p := s.pages.Acquire(session)
	if err := p.workflow.Check(upload.Selection{File: file}); err != nil {
		return err
	}

	p.mu.Lock()
	p.file = file
	p.stickers = nil
	p.mu.Unlock()

	s.logger.Debug("image selected", "session", session, "name", file.Name, "content_type", file.ContentType)
	return nil
}

func (s *system) Process(ctx context.Context, session uuid.UUID) (Result, error) {
	p := s.pages.Acquire(session)
	p.mu.Lock()
	sel := upload.Selection{File: p.file}
	p.mu.Unlock()
	return p.workflow.Submit(ctx, sel)
}

func (s *system) AddSticker(session uuid.UUID, name string) (Sticker, error) {
	entry, ok := lookupSticker(name)
	if !ok {
		return Sticker{}, ErrUnknownSticker
	}

	p := s.pages.Acquire(session)
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return Sticker{}, ErrNoImage
	}

	st := Sticker{
		ID:       uuid.New(),
		Name:     entry.Name,
		Glyph:    entry.Glyph,
		Position: overlay.Position{X: 50, Y: 50},
	}
	p.stickers = append(p.stickers, st)
	return st, nil
}

func (s *system) MoveSticker(session, id uuid.UUID, move Move) (Sticker, error) {
	pos, err := move.resolve()
	if err != nil {
		return Sticker{}, err
	}

	p := s.pages.Acquire(session)
	p.mu.Lock()
	defer p.mu.Unlock()

	i := slices.IndexFunc(p.stickers, func(st Sticker) bool { return st.ID == id })
	if i < 0 {
		return Sticker{}, ErrStickerNotFound
	}
	p.stickers[i].Position = pos
	return p.stickers[i], nil
}

func (s *system) RemoveSticker(session, id uuid.UUID) error {
	p := s.pages.Acquire(session)
	p.mu.Lock()
	defer p.mu.Unlock()

	i := slices.IndexFunc(p.stickers, func(st Sticker) bool { return st.ID == id })
	if i < 0 {
		return ErrStickerNotFound
	}
	p.stickers = slices.Delete(p.stickers, i, i+1)
	return nil
}

func (s *system) Stickers(session uuid.UUID) []Sticker {
	p := s.pages.Acquire(session)
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.stickers)
}

func (s *system) View(session uuid.UUID) View {
	p := s.pages.Acquire(session)
	p.mu.Lock()
	file := p.file
	stickers := slices.Clone(p.stickers)
	p.mu.Unlock()

	v := View{
		Stickers: stickers,
		Status:   p.workflow.Status(),
	}
	if v.Stickers == nil {
		v.Stickers = []Sticker{}
	}
	if file != nil {
		info := file.Info()
		v.File = &info
		v.Preview = file.PreviewURL()
	}
	v.CanSubmit = v.Status.Enabled && file != nil
	return v
}

func (s *system) TakeNotice(session uuid.UUID) (upload.Notice, bool) {
	p, ok := s.pages.Lookup(session)
	if !ok {
		return upload.Notice{}, false
	}
	return p.workflow.TakeNotice()
}

func (s *system) End(session uuid.UUID) bool {
	return s.pages.End(session)
}

func (s *system) Start(lc *lifecycle.Coordinator, sweep time.Duration) {
	s.pages.Start(lc, sweep)
}
