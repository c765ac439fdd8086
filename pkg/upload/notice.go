package upload

import (
	"errors"
	"time"
)

// NoticeKind classifies the outcome a notice reports.
type NoticeKind string

const (
	NoticeSuccess     NoticeKind = "success"
	NoticeFailure     NoticeKind = "failure"
	NoticeMissing     NoticeKind = "missing"
	NoticeUnsupported NoticeKind = "unsupported"
	NoticePending     NoticeKind = "pending"
)

// Level is the severity a notice is displayed with.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a transient, user-facing report of a workflow event.
type Notice struct {
	Action string
	Kind   NoticeKind
	Err    error
	At     time.Time
}

// Level returns the display severity for the notice kind.
func (n Notice) Level() Level {
	switch n.Kind {
	case NoticeSuccess:
		return LevelSuccess
	case NoticeMissing, NoticePending:
		return LevelWarning
	default:
		return LevelError
	}
}

// Observer receives every notice a workflow records.
type Observer interface {
	Notify(Notice)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Notice)

func (f ObserverFunc) Notify(n Notice) {
	f(n)
}

func noticeFor(action string, err error) Notice {
	n := Notice{Action: action, Err: err, At: time.Now()}

	var valErr *ValidationError
	switch {
	case errors.As(err, &valErr):
		n.Kind = valErr.Reason
	case errors.Is(err, ErrPending):
		n.Kind = NoticePending
	default:
		n.Kind = NoticeFailure
	}
	return n
}
