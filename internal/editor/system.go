package editor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/pkg/lifecycle"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

// System defines the editor page operations, keyed by session.
type System interface {
	Select(session uuid.UUID, file *upload.File) error
	Process(ctx context.Context, session uuid.UUID) (Result, error)

	AddSticker(session uuid.UUID, name string) (Sticker, error)
	MoveSticker(session, id uuid.UUID, move Move) (Sticker, error)
	RemoveSticker(session, id uuid.UUID) error
	Stickers(session uuid.UUID) []Sticker

	View(session uuid.UUID) View
	TakeNotice(session uuid.UUID) (upload.Notice, bool)
	End(session uuid.UUID) bool
	Start(lc *lifecycle.Coordinator, sweep time.Duration)
}
