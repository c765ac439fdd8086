package memes

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

// ErrNothingToDownload is returned when no meme has been generated yet.
var ErrNothingToDownload = errors.New("no generated meme to download")

// MapHTTPStatus maps meme and workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNothingToDownload) {
		return http.StatusNotFound
	}
	return upload.MapHTTPStatus(err)
}
