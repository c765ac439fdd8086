package editor

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/whiskers/pkg/overlay"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

// Domain errors for editor operations.
var (
	ErrNoImage          = errors.New("no image selected")
	ErrUnknownSticker   = errors.New("unknown sticker")
	ErrStickerNotFound  = errors.New("sticker not found")
	ErrInvalidMove      = errors.New("move needs a position or a pointer and box")
	ErrInvalidStickerID = errors.New("invalid sticker id")
)

// MapHTTPStatus maps editor and workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrStickerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNoImage):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownSticker),
		errors.Is(err, ErrInvalidMove),
		errors.Is(err, ErrInvalidStickerID),
		errors.Is(err, overlay.ErrEmptyBox):
		return http.StatusBadRequest
	}
	return upload.MapHTTPStatus(err)
}
