package upload_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

type payload struct {
	ImageURL string `json:"image_url"`
}

type statusErr int

func (e statusErr) Error() string   { return http.StatusText(int(e)) }
func (e statusErr) HTTPStatus() int { return int(e) }

func videoFile() *upload.File {
	return upload.NewFile("cat.mp4", "video/mp4", []byte("frames"))
}

func TestSubmitSuccess(t *testing.T) {
	want := payload{ImageURL: "https://images.example.com/cat.png"}

	var calls atomic.Int32
	w := upload.New("memes", upload.RequirePrompt(), func(ctx context.Context, sel upload.Selection) (payload, error) {
		calls.Add(1)
		return want, nil
	})
	defer w.Close()

	got, err := w.Submit(context.Background(), upload.Selection{Prompt: "funny cat"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got != want {
		t.Errorf("result: got %+v, want %+v", got, want)
	}
	if calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1", calls.Load())
	}
	if w.State() != upload.Succeeded {
		t.Errorf("state: got %s, want succeeded", w.State())
	}

	status := w.Status()
	if status.Result == nil || *status.Result != want {
		t.Errorf("status result: got %+v, want %+v", status.Result, want)
	}
	if !status.Enabled {
		t.Error("workflow should be enabled after success")
	}

	n, ok := w.TakeNotice()
	if !ok || n.Kind != upload.NoticeSuccess {
		t.Errorf("notice: got %+v, want success", n)
	}
	if _, ok := w.TakeNotice(); ok {
		t.Error("notice should be cleared after TakeNotice")
	}
}

func TestSubmitRejectsUnsupportedType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
	}{
		{"text", "text/plain"},
		{"json", "application/json"},
		{"pdf", "application/pdf"},
		{"image for video page", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			w := upload.New("analyzer", upload.AcceptFile("video/", "audio/"), func(ctx context.Context, sel upload.Selection) (payload, error) {
				calls.Add(1)
				return payload{}, nil
			})
			defer w.Close()

			sel := upload.Selection{File: upload.NewFile("notes.txt", tt.contentType, []byte("meow"))}
			_, err := w.Submit(context.Background(), sel)

			var valErr *upload.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error: got %v, want ValidationError", err)
			}
			if valErr.Reason != upload.NoticeUnsupported {
				t.Errorf("reason: got %s, want unsupported", valErr.Reason)
			}
			if calls.Load() != 0 {
				t.Errorf("calls: got %d, want 0", calls.Load())
			}
			if w.Requests() != 0 {
				t.Errorf("requests: got %d, want 0", w.Requests())
			}
			if w.State() != upload.Idle {
				t.Errorf("state: got %s, want idle", w.State())
			}

			n, ok := w.TakeNotice()
			if !ok || n.Level() != upload.LevelError {
				t.Errorf("notice: got %+v, want error-level validation notice", n)
			}
		})
	}
}

func TestSubmitRejectsEmptySelection(t *testing.T) {
	var calls atomic.Int32
	w := upload.New("editor", upload.AcceptFile("image/"), func(ctx context.Context, sel upload.Selection) (payload, error) {
		calls.Add(1)
		return payload{}, nil
	})
	defer w.Close()

	_, err := w.Submit(context.Background(), upload.Selection{})

	var valErr *upload.ValidationError
	if !errors.As(err, &valErr) || valErr.Reason != upload.NoticeMissing {
		t.Fatalf("error: got %v, want missing ValidationError", err)
	}
	if calls.Load() != 0 {
		t.Errorf("calls: got %d, want 0", calls.Load())
	}

	n, _ := w.TakeNotice()
	if n.Level() != upload.LevelWarning {
		t.Errorf("level: got %s, want warning", n.Level())
	}
}

func TestSubmitFailure(t *testing.T) {
	succeed := true
	w := upload.New("analyzer", upload.AcceptFile("video/"), func(ctx context.Context, sel upload.Selection) (payload, error) {
		if succeed {
			return payload{ImageURL: "first"}, nil
		}
		return payload{}, statusErr(http.StatusInternalServerError)
	})
	defer w.Close()

	if _, err := w.Submit(context.Background(), upload.Selection{File: videoFile()}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	succeed = false
	_, err := w.Submit(context.Background(), upload.Selection{File: videoFile()})

	var reqErr *upload.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error: got %v, want RequestError", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status code: got %d, want 500", reqErr.StatusCode)
	}
	if w.State() != upload.Failed {
		t.Errorf("state: got %s, want failed", w.State())
	}
	if !w.Enabled() {
		t.Error("workflow should be enabled after failure")
	}
	if _, ok := w.Result(); ok {
		t.Error("failed submission should not keep a result")
	}

	status := w.Status()
	if status.Result != nil {
		t.Errorf("status result: got %+v, want nil", status.Result)
	}
	if status.Error == "" {
		t.Error("status error should be set")
	}
	if w.Requests() != 2 {
		t.Errorf("requests: got %d, want 2", w.Requests())
	}
}

func TestSubmitWhilePending(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	var calls atomic.Int32
	w := upload.New("analyzer", upload.AcceptFile("video/"), func(ctx context.Context, sel upload.Selection) (payload, error) {
		calls.Add(1)
		close(started)
		<-release
		return payload{ImageURL: "done"}, nil
	})
	defer w.Close()

	var wg sync.WaitGroup
	wg.Go(func() {
		if _, err := w.Submit(context.Background(), upload.Selection{File: videoFile()}); err != nil {
			t.Errorf("first submit failed: %v", err)
		}
	})

	<-started

	if w.Enabled() {
		t.Error("workflow should be disabled while pending")
	}
	if w.State() != upload.Pending {
		t.Errorf("state: got %s, want pending", w.State())
	}

	for range 5 {
		if _, err := w.Submit(context.Background(), upload.Selection{File: videoFile()}); !errors.Is(err, upload.ErrPending) {
			t.Errorf("error: got %v, want ErrPending", err)
		}
	}

	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("calls: got %d, want 1", calls.Load())
	}
	if w.State() != upload.Succeeded {
		t.Errorf("state: got %s, want succeeded", w.State())
	}
}

func TestSubmitAcceptedRunsOnlyForAcceptedSelections(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	w := upload.New("memes", upload.RequirePrompt(), func(ctx context.Context, sel upload.Selection) (payload, error) {
		close(started)
		<-release
		return payload{ImageURL: sel.Prompt}, nil
	})
	defer w.Close()

	var accepted []string
	var mu sync.Mutex
	hook := func(prompt string) func() {
		return func() {
			if w.State() != upload.Pending {
				t.Errorf("hook state: got %s, want pending", w.State())
			}
			mu.Lock()
			accepted = append(accepted, prompt)
			mu.Unlock()
		}
	}

	if _, err := w.SubmitAccepted(context.Background(), upload.Selection{Prompt: " "}, hook("blank")); err == nil {
		t.Fatal("blank prompt should be rejected")
	}

	var wg sync.WaitGroup
	wg.Go(func() {
		if _, err := w.SubmitAccepted(context.Background(), upload.Selection{Prompt: "first"}, hook("first")); err != nil {
			t.Errorf("first submit failed: %v", err)
		}
	})

	<-started

	if _, err := w.SubmitAccepted(context.Background(), upload.Selection{Prompt: "second"}, hook("second")); !errors.Is(err, upload.ErrPending) {
		t.Errorf("error: got %v, want ErrPending", err)
	}

	close(release)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(accepted) != 1 || accepted[0] != "first" {
		t.Errorf("accepted: got %v, want [first]", accepted)
	}
}

func TestCloseDiscardsLateResponse(t *testing.T) {
	started := make(chan struct{})

	w := upload.New("memes", upload.RequirePrompt(), func(ctx context.Context, sel upload.Selection) (payload, error) {
		close(started)
		<-ctx.Done()
		return payload{ImageURL: "late"}, nil
	})

	errc := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), upload.Selection{Prompt: "funny cat"})
		errc <- err
	}()

	<-started
	w.Close()

	select {
	case err := <-errc:
		if !errors.Is(err, upload.ErrClosed) {
			t.Errorf("error: got %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not return after close")
	}

	if _, ok := w.Result(); ok {
		t.Error("late response should be discarded")
	}
	if w.Enabled() {
		t.Error("closed workflow should not be enabled")
	}
	if _, err := w.Submit(context.Background(), upload.Selection{Prompt: "again"}); !errors.Is(err, upload.ErrClosed) {
		t.Errorf("submit after close: got %v, want ErrClosed", err)
	}
}

func TestCheck(t *testing.T) {
	w := upload.New("editor", upload.AcceptFile("image/"), func(ctx context.Context, sel upload.Selection) (payload, error) {
		t.Fatal("sender should not be called by Check")
		return payload{}, nil
	})
	defer w.Close()

	if err := w.Check(upload.Selection{File: upload.NewFile("cat.png", "image/png", []byte("png"))}); err != nil {
		t.Errorf("valid image: got %v", err)
	}
	if _, ok := w.TakeNotice(); ok {
		t.Error("valid check should not record a notice")
	}

	if err := w.Check(upload.Selection{File: upload.NewFile("notes.txt", "text/plain", []byte("meow"))}); err == nil {
		t.Error("text file should fail check")
	}
	n, ok := w.TakeNotice()
	if !ok || n.Kind != upload.NoticeUnsupported {
		t.Errorf("notice: got %+v, want unsupported", n)
	}
}

func TestObserver(t *testing.T) {
	var kinds []upload.NoticeKind
	obs := upload.ObserverFunc(func(n upload.Notice) {
		kinds = append(kinds, n.Kind)
	})

	w := upload.New("memes", upload.RequirePrompt(), func(ctx context.Context, sel upload.Selection) (payload, error) {
		return payload{}, errors.New("connection refused")
	}, upload.WithObserver(obs))
	defer w.Close()

	w.Submit(context.Background(), upload.Selection{})
	w.Submit(context.Background(), upload.Selection{Prompt: "funny cat"})

	want := []upload.NoticeKind{upload.NoticeMissing, upload.NoticeFailure}
	if len(kinds) != len(want) {
		t.Fatalf("notices: got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("notice %d: got %s, want %s", i, kinds[i], want[i])
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing", &upload.ValidationError{Reason: upload.NoticeMissing}, http.StatusBadRequest},
		{"unsupported", &upload.ValidationError{Reason: upload.NoticeUnsupported}, http.StatusUnsupportedMediaType},
		{"pending", upload.ErrPending, http.StatusConflict},
		{"closed", upload.ErrClosed, http.StatusGone},
		{"request", &upload.RequestError{Action: "memes", Err: errors.New("boom")}, http.StatusBadGateway},
		{"other", errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := upload.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	tests := map[upload.State]string{
		upload.Idle:      "idle",
		upload.Pending:   "pending",
		upload.Succeeded: "succeeded",
		upload.Failed:    "failed",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
	if upload.Pending.Settled() {
		t.Error("pending should not be settled")
	}
	if !upload.Failed.Settled() {
		t.Error("failed should be settled")
	}
}

func TestStatusJSON(t *testing.T) {
	status := upload.Status[payload]{
		State:   upload.Succeeded,
		Enabled: true,
		Result:  &payload{ImageURL: "https://images.example.com/cat.png"},
	}

	data, err := json.Marshal(status)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"state":"succeeded"`) {
		t.Errorf("state should encode by name: %s", data)
	}

	var decoded upload.Status[payload]
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.State != upload.Succeeded || decoded.Result.ImageURL != status.Result.ImageURL {
		t.Errorf("decoded: got %+v", decoded)
	}

	var bad upload.State
	if err := bad.UnmarshalText([]byte("sleeping")); err == nil {
		t.Error("unknown state should not decode")
	}
}
