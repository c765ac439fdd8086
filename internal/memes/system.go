package memes

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/lifecycle"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

// System defines the meme maker operations, keyed by session.
type System interface {
	Generate(ctx context.Context, session uuid.UUID, prompt string, image *upload.File) (Result, error)
	Download(ctx context.Context, session uuid.UUID) (*Download, error)

	View(session uuid.UUID) View
	TakeNotice(session uuid.UUID) (upload.Notice, bool)
	End(session uuid.UUID) bool
	Start(lc *lifecycle.Coordinator, sweep time.Duration)
}
