// Package analyzer classifies a cat's mood from an uploaded video or audio clip.
package analyzer

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

// Action names the analyzer workflow in notices and logs.
const Action = "analyzer"

// Accept lists the media type prefixes the analyzer takes.
var Accept = []string{"video/", "audio/"}

// Client is the remote call the analyzer depends on.
type Client interface {
	AnalyzeMedia(ctx context.Context, file *upload.File) (remote.MoodAnalysis, error)
}

// NewWorkflow builds the analyzer's upload workflow around client.
func NewWorkflow(client Client, opts ...upload.Option) *upload.Workflow[remote.MoodAnalysis] {
	return upload.New(
		Action,
		upload.All(upload.AcceptFile(Accept...)),
		func(ctx context.Context, sel upload.Selection) (remote.MoodAnalysis, error) {
			return client.AnalyzeMedia(ctx, sel.File)
		},
		opts...,
	)
}

// View is the analyzer page state for one session.
type View struct {
	File      *upload.FileInfo                   `json:"file,omitempty"`
	Preview   string                             `json:"-"`
	Status    upload.Status[remote.MoodAnalysis] `json:"status"`
	CanSubmit bool                               `json:"can_submit"`
}

type page struct {
	workflow *upload.Workflow[remote.MoodAnalysis]

	mu   sync.Mutex
	file *upload.File
}

func (p *page) Close() {
	p.workflow.Close()
}

func (p *page) selection() upload.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return upload.Selection{File: p.file}
}

type system struct {
	pages  *sessions.Store[*page]
	logger *slog.Logger
}

// New creates the analyzer System. Pages idle longer than idle are closed by
// the sweeper started with Start.
func New(client Client, idle time.Duration, logger *slog.Logger) System {
	logger = logger.With("system", Action)
	return &system{
		pages: sessions.NewStore(Action, func(id uuid.UUID) *page {
			return &page{
				workflow: NewWorkflow(client, upload.WithLogger(logger.With("session", id))),
			}
		}, idle, logger),
		logger: logger,
	}
}

func (s *system) Select(session uuid.UUID, file *upload.File) error {
	p := s.pages.Acquire(session)
	if err := p.workflow.Check(upload.Selection{File: file}); err != nil {
		return err
	}

	p.mu.Lock()
	p.file = file
	p.mu.Unlock()

	s.logger.Debug("file selected", "session", session, "name", file.Name, "content_type", file.ContentType)
	return nil
}

func (s *system) Analyze(ctx context.Context, session uuid.UUID) (remote.MoodAnalysis, error) {
	p := s.pages.Acquire(session)
	return p.workflow.Submit(ctx, p.selection())
}

func (s *system) View(session uuid.UUID) View {
	p := s.pages.Acquire(session)
	p.mu.Lock()
	file := p.file
	p.mu.Unlock()

	v := View{Status: p.workflow.Status()}
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
