package upload

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Sender issues the single outbound request for a validated selection.
type Sender[R any] func(ctx context.Context, sel Selection) (R, error)

// Status is a point-in-time view of a workflow for rendering.
// Enabled mirrors whether the submit control should be clickable.
type Status[R any] struct {
	State   State  `json:"state"`
	Enabled bool   `json:"enabled"`
	Result  *R     `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Option configures a Workflow.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	observers []Observer
}

// WithLogger sets the workflow logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers an observer for every recorded notice.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}

// Workflow owns one page instance's submission lifecycle. At most one request is
// in flight at a time; submissions while Pending are rejected with ErrPending.
type Workflow[R any] struct {
	action    string
	validate  Validator
	send      Sender[R]
	logger    *slog.Logger
	observers []Observer

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	result   *R
	err      error
	notice   *Notice
	requests int
	closed   bool
}

// New creates an Idle workflow named by action ("analyzer", "editor", ...).
func New[R any](action string, validate Validator, send Sender[R], opts ...Option) *Workflow[R] {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Workflow[R]{
		action:    action,
		validate:  validate,
		send:      send,
		logger:    o.logger.With("workflow", action),
		observers: o.observers,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Action returns the workflow's action name.
func (w *Workflow[R]) Action() string {
	return w.action
}

// Check validates sel without submitting. A failure records a validation notice
// and leaves the lifecycle untouched.
func (w *Workflow[R]) Check(sel Selection) error {
	if err := w.validate(sel); err != nil {
		w.record(noticeFor(w.action, err))
		return err
	}
	return nil
}

// Submit validates sel and, when valid and nothing is pending, issues exactly one
// request. The call blocks until the request settles, ctx is cancelled, or the
// workflow is closed.
func (w *Workflow[R]) Submit(ctx context.Context, sel Selection) (R, error) {
	return w.SubmitAccepted(ctx, sel, nil)
}

// SubmitAccepted is Submit with a hook that runs once the selection is accepted
// and the workflow is Pending, before the request is sent. A rejected
// selection never reaches accepted.
func (w *Workflow[R]) SubmitAccepted(ctx context.Context, sel Selection, accepted func()) (R, error) {
	var zero R

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return zero, ErrClosed
	}
	if w.state == Pending {
		w.mu.Unlock()
		w.record(noticeFor(w.action, ErrPending))
		return zero, ErrPending
	}
	if err := w.validate(sel); err != nil {
		w.mu.Unlock()
		w.record(noticeFor(w.action, err))
		w.logger.Debug("selection rejected", "error", err)
		return zero, err
	}
	w.state = Pending
	w.err = nil
	w.requests++
	w.mu.Unlock()

	if accepted != nil {
		accepted()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(w.ctx, cancel)
	defer stop()

	start := time.Now()
	result, err := w.send(reqCtx, sel)

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Debug("late response discarded", "duration", time.Since(start))
		return zero, ErrClosed
	}

	if err != nil {
		reqErr := newRequestError(w.action, err)
		w.state = Failed
		w.result = nil
		w.err = reqErr
		w.mu.Unlock()

		w.record(noticeFor(w.action, reqErr))
		w.logger.Warn("request failed", "error", reqErr, "duration", time.Since(start))
		return zero, reqErr
	}

	w.state = Succeeded
	w.result = &result
	w.mu.Unlock()

	w.record(Notice{Action: w.action, Kind: NoticeSuccess, At: time.Now()})
	w.logger.Info("request succeeded", "duration", time.Since(start))
	return result, nil
}

// State returns the current lifecycle state.
func (w *Workflow[R]) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Enabled reports whether a new submission may start.
func (w *Workflow[R]) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed && w.state != Pending
}

// Result returns the last successful result, if any.
func (w *Workflow[R]) Result() (R, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.result == nil {
		var zero R
		return zero, false
	}
	return *w.result, true
}

// Status returns a snapshot of the workflow.
func (w *Workflow[R]) Status() Status[R] {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Status[R]{
		State:   w.state,
		Enabled: !w.closed && w.state != Pending,
	}
	if w.result != nil {
		r := *w.result
		s.Result = &r
	}
	if w.err != nil {
		s.Error = w.err.Error()
	}
	return s
}

// Requests returns how many outbound requests the workflow has issued.
func (w *Workflow[R]) Requests() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.requests
}

// TakeNotice returns the most recent notice and clears it.
func (w *Workflow[R]) TakeNotice() (Notice, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.notice == nil {
		return Notice{}, false
	}
	n := *w.notice
	w.notice = nil
	return n, true
}

// Close cancels any in-flight request and rejects further submissions.
// A response arriving after Close is discarded.
func (w *Workflow[R]) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
}

func (w *Workflow[R]) record(n Notice) {
	w.mu.Lock()
	w.notice = &n
	w.mu.Unlock()

	for _, obs := range w.observers {
		obs.Notify(n)
	}
}
