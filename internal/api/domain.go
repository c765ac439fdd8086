package api

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/internal/analyzer"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/editor"
	"github.com/JaimeStill/whiskers/internal/infrastructure"
	"github.com/JaimeStill/whiskers/internal/memes"
)

// Domain holds the page systems shared by the API and app modules.
type Domain struct {
	Analyzer analyzer.System
	Editor   editor.System
	Memes    memes.System
}

// NewDomain creates all page systems over the shared remote client.
func NewDomain(cfg *config.Config, infra *infrastructure.Infrastructure) *Domain {
	idle := cfg.Sessions.IdleTimeoutDuration()

	return &Domain{
		Analyzer: analyzer.New(infra.Remote, idle, infra.Logger),
		Editor:   editor.New(infra.Remote, &cfg.Share, idle, infra.Logger),
		Memes:    memes.New(infra.Remote, &cfg.Generation, idle, infra.Logger),
	}
}

// Start runs each system's idle sweeper until the lifecycle shuts down, at
// which point every open page instance is closed.
func (d *Domain) Start(cfg *config.Config, infra *infrastructure.Infrastructure) {
	sweep := cfg.Sessions.SweepIntervalDuration()
	d.Analyzer.Start(infra.Lifecycle, sweep)
	d.Editor.Start(infra.Lifecycle, sweep)
	d.Memes.Start(infra.Lifecycle, sweep)
}

// End closes every page instance belonging to session and reports how many
// were open.
func (d *Domain) End(session uuid.UUID) int {
	n := 0
	for _, end := range []func(uuid.UUID) bool{
		d.Analyzer.End,
		d.Editor.End,
		d.Memes.End,
	} {
		if end(session) {
			n++
		}
	}
	return n
}
