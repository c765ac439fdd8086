package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrPending is returned when a submission arrives while another is in flight.
	ErrPending = errors.New("submission already pending")
	// ErrClosed is returned once the workflow's page instance has gone away.
	ErrClosed = errors.New("workflow closed")
)

// ValidationError rejects a selection before any request is issued.
type ValidationError struct {
	Reason      NoticeKind
	ContentType string
	Accept      []string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case NoticeUnsupported:
		return fmt.Sprintf("unsupported content type %q: want %s", e.ContentType, strings.Join(e.Accept, ", "))
	default:
		return "selection is empty"
	}
}

// RequestError reports a failed outbound request: transport failure,
// non-success status, or an undecodable response body.
type RequestError struct {
	Action     string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed (status %d): %v", e.Action, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Action, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// statusCoder is satisfied by transport errors that carry an upstream HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

func newRequestError(action string, err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}

	re := &RequestError{Action: action, Err: err}
	var sc statusCoder
	if errors.As(err, &sc) {
		re.StatusCode = sc.HTTPStatus()
	}
	return re
}

// MapHTTPStatus maps workflow errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		if valErr.Reason == NoticeUnsupported {
			return http.StatusUnsupportedMediaType
		}
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrPending) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrClosed) {
		return http.StatusGone
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
