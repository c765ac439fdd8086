package remote

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates a success response whose body could not be
// decoded or lacked the expected field.
var ErrMalformedResponse = errors.New("malformed response")

// ErrImageTooLarge is returned when a downloaded image exceeds max_image_size.
var ErrImageTooLarge = errors.New("image exceeds size limit")

// StatusError reports a non-2xx response from the remote service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("remote returned status %d", e.Code)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Body)
}

// HTTPStatus returns the upstream status code.
func (e *StatusError) HTTPStatus() int {
	return e.Code
}
