// Package memes generates meme images from a text prompt through the remote
// generator.
package memes

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/lifecycle"
	"github.com/JaimeStill/whiskers/pkg/remote"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

// Action names the meme workflow in notices and logs.
const Action = "memes"

// DownloadName is the filename a generated meme is saved under.
const DownloadName = "generated-meme.png"

// Accept lists the media type prefixes allowed for the reference image.
var Accept = []string{"image/"}

// Client is the remote calls the meme maker depends on.
type Client interface {
	GenerateImage(ctx context.Context, req remote.GenerateRequest) (string, error)
	FetchImage(ctx context.Context, imageURL string) (*remote.Image, error)
}

// Result is the location of a generated meme.
type Result struct {
	ImageURL string `json:"image_url"`
}

// Download is a fetched meme ready to be saved.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewWorkflow builds the meme workflow. The reference image is validated but
// never sent.
func NewWorkflow(client Client, gen *GenerationConfig, opts ...upload.Option) *upload.Workflow[Result] {
	return upload.New(
		Action,
		upload.All(upload.RequirePrompt(), upload.OptionalFile(Accept...)),
		func(ctx context.Context, sel upload.Selection) (Result, error) {
			imageURL, err := client.GenerateImage(ctx, gen.Request(sel.Prompt))
			if err != nil {
				return Result{}, err
			}
			return Result{ImageURL: imageURL}, nil
		},
		opts...,
	)
}

// View is the meme page state for one session.
type View struct {
	Prompt    string                `json:"prompt"`
	Image     *upload.FileInfo      `json:"image,omitempty"`
	Preview   string                `json:"-"`
	Status    upload.Status[Result] `json:"status"`
	CanSubmit bool                  `json:"can_submit"`
}

type page struct {
	workflow *upload.Workflow[Result]

	mu     sync.Mutex
	prompt string
	image  *upload.File
}

func (p *page) Close() {
	p.workflow.Close()
}

type system struct {
	client Client
	pages  *sessions.Store[*page]
	logger *slog.Logger
}

// New creates the meme System.
func New(client Client, gen *GenerationConfig, idle time.Duration, logger *slog.Logger) System {
	logger = logger.With("system", Action)
	return &system{
		client: client,
		pages: sessions.NewStore(Action, func(id uuid.UUID) *page {
			return &page{
				workflow: NewWorkflow(client, gen, upload.WithLogger(logger.With("session", id))),
			}
		}, idle, logger),
		logger: logger,
	}
}

// Generate submits prompt with the given reference image, or the one kept from
// an earlier generation. The page records prompt and image only once the
// workflow accepts the submission; rejected input leaves the view untouched.
func (s *system) Generate(ctx context.Context, session uuid.UUID, prompt string, image *upload.File) (Result, error) {
	p := s.pages.Acquire(session)

	if image != nil {
		if err := p.workflow.Check(upload.Selection{Prompt: prompt, File: image}); err != nil {
			return Result{}, err
		}
	}

	p.mu.Lock()
	sel := upload.Selection{Prompt: prompt, File: image}
	if image == nil {
		sel.File = p.image
	}
	p.mu.Unlock()

	return p.workflow.SubmitAccepted(ctx, sel, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.prompt = sel.Prompt
		p.image = sel.File
	})
}

// Download fetches the last generated meme.
func (s *system) Download(ctx context.Context, session uuid.UUID) (*Download, error) {
	p, ok := s.pages.Lookup(session)
	if !ok {
		return nil, ErrNothingToDownload
	}
	result, ok := p.workflow.Result()
	if !ok {
		return nil, ErrNothingToDownload
	}

	img, err := s.client.FetchImage(ctx, result.ImageURL)
	if err != nil {
		return nil, &upload.RequestError{Action: Action, Err: err}
	}

	s.logger.Debug("meme downloaded", "session", session, "bytes", len(img.Data))
	return &Download{
		Filename:    DownloadName,
		ContentType: img.ContentType,
		Data:        img.Data,
	}, nil
}

func (s *system) View(session uuid.UUID) View {
	p := s.pages.Acquire(session)
	p.mu.Lock()
	prompt, image := p.prompt, p.image
	p.mu.Unlock()

	v := View{
		Prompt: prompt,
		Status: p.workflow.Status(),
	}
	if image != nil {
		info := image.Info()
		v.Image = &info
		v.Preview = image.PreviewURL()
	}
	v.CanSubmit = v.Status.Enabled
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
