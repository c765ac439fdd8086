package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrTooLarge is returned when a request body exceeds the upload limit.
var ErrTooLarge = errors.New("upload exceeds maximum size")

// IsMultipart reports whether r carries a multipart/form-data body.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// FormFile reads the first present file field from a multipart request.
// It returns nil without error when r is not multipart or none of fields
// carries a file.
func FormFile(r *http.Request, maxBytes int64, fields ...string) (*File, error) {
	if !IsMultipart(r) {
		return nil, nil
	}
	if r.MultipartForm == nil {
		r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, ErrTooLarge
			}
			return nil, fmt.Errorf("parse form: %w", err)
		}
	}

	for _, field := range fields {
		f, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read form file %s: %w", field, err)
		}
		defer f.Close()
		return ReadFile(header.Filename, header.Header.Get("Content-Type"), f)
	}
	return nil, nil
}
