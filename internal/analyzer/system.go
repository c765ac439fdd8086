package analyzer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/lifecycle"
	"github.com/JaimeStill/whiskers/pkg/remote"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

// System defines the analyzer page operations, keyed by session.
type System interface {
	// Select validates and stores the clip to analyze. An invalid file leaves
	// the previous selection in place.
	Select(session uuid.UUID, file *upload.File) error
	Analyze(ctx context.Context, session uuid.UUID) (remote.MoodAnalysis, error)
	View(session uuid.UUID) View
	TakeNotice(session uuid.UUID) (upload.Notice, bool)
	End(session uuid.UUID) bool
	Start(lc *lifecycle.Coordinator, sweep time.Duration)
}
