package memes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/whiskers/internal/memes"
	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/remote"
	"github.com/JaimeStill/whiskers/pkg/routes"
	"github.com/JaimeStill/whiskers/pkg/sessions"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

type blockingClient struct {
	started chan struct{}
	release chan struct{}
}

func (c *blockingClient) GenerateImage(ctx context.Context, req remote.GenerateRequest) (string, error) {
	close(c.started)
	<-c.release
	return "https://img.example/" + req.Prompt + ".png", nil
}

func (c *blockingClient) FetchImage(ctx context.Context, imageURL string) (*remote.Image, error) {
	return nil, memes.ErrNothingToDownload
}

type fakeClient struct {
	calls    atomic.Int32
	fetches  atomic.Int32
	last     remote.GenerateRequest
	imageURL string
	image    *remote.Image
	err      error
}

func (c *fakeClient) GenerateImage(ctx context.Context, req remote.GenerateRequest) (string, error) {
	c.calls.Add(1)
	c.last = req
	return c.imageURL, c.err
}

func (c *fakeClient) FetchImage(ctx context.Context, imageURL string) (*remote.Image, error) {
	c.fetches.Add(1)
	return c.image, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func generation(t *testing.T) *memes.GenerationConfig {
	t.Helper()
	cfg := &memes.GenerationConfig{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	return cfg
}

type harness struct {
	sys     memes.System
	mux     *http.ServeMux
	session uuid.UUID
}

func newHarness(t *testing.T, client memes.Client) *harness {
	t.Helper()

	sessCfg := &sessions.Config{}
	if err := sessCfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	locCfg := &notices.Config{}
	if err := locCfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	catalog, err := notices.New(locCfg)
	if err != nil {
		t.Fatal(err)
	}

	sys := memes.New(client, generation(t), time.Hour, discard())
	h := memes.NewHandler(sys, sessCfg, catalog, 1<<20, discard())

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	return &harness{sys: sys, mux: mux, session: uuid.New()}
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.AddCookie(&http.Cookie{Name: "whiskers_session", Value: h.session.String()})
	rec := httptest.NewRecorder()
	h.mux.ServeHTTP(rec, req)
	return rec
}

func promptRequest(prompt string) *http.Request {
	body, _ := json.Marshal(memes.GenerateRequest{Prompt: prompt})
	req := httptest.NewRequest(http.MethodPost, "/memes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type errorBody struct {
	Error  string          `json:"error"`
	Notice notices.Message `json:"notice"`
}

func TestGenerationDefaults(t *testing.T) {
	req := generation(t).Request("funny cat")

	want := remote.GenerateRequest{
		Prompt:            "funny cat",
		Width:             1024,
		Height:            1024,
		NumInferenceSteps: 50,
		NegativePrompt:    "",
		Seed:              42,
	}
	if req != want {
		t.Errorf("request: got %+v, want %+v", req, want)
	}
}

func TestGenerationEnvOverrides(t *testing.T) {
	t.Setenv("TEST_GEN_WIDTH", "512")
	t.Setenv("TEST_GEN_SEED", "0")

	cfg := &memes.GenerationConfig{}
	err := cfg.Finalize(&memes.GenerationEnv{Width: "TEST_GEN_WIDTH", Seed: "TEST_GEN_SEED"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 512 || cfg.Height != 1024 {
		t.Errorf("size: got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Seed == nil || *cfg.Seed != 0 {
		t.Errorf("seed: got %v, want explicit 0", cfg.Seed)
	}
}

func TestGenerationRejectsBadValues(t *testing.T) {
	t.Setenv("TEST_GEN_STEPS", "many")

	cfg := &memes.GenerationConfig{}
	if err := cfg.Finalize(&memes.GenerationEnv{NumInferenceSteps: "TEST_GEN_STEPS"}); err == nil {
		t.Error("expected error for non-numeric steps")
	}

	cfg = &memes.GenerationConfig{Width: -1}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error for negative width")
	}
}

func TestGenerationMerge(t *testing.T) {
	cfg := generation(t)
	seed := 7
	cfg.Merge(&memes.GenerationConfig{Height: 768, Seed: &seed})

	if cfg.Width != 1024 || cfg.Height != 768 || *cfg.Seed != 7 {
		t.Errorf("merged: got %+v seed=%d", cfg, *cfg.Seed)
	}
}

func TestGenerateSendsLiteralFields(t *testing.T) {
	var (
		requests atomic.Int32
		body     map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"image_url":"https://img.example/meme.png"}`))
	}))
	defer srv.Close()

	cfg := &remote.Config{GeneratorURL: srv.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, remote.New(cfg, discard()))

	rec := h.do(t, promptRequest("funny cat"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	if requests.Load() != 1 {
		t.Fatalf("requests: got %d, want 1", requests.Load())
	}
	want := map[string]any{
		"prompt":              "funny cat",
		"width":               float64(1024),
		"height":              float64(1024),
		"num_inference_steps": float64(50),
		"negative_prompt":     "",
		"seed":                float64(42),
	}
	for k, v := range want {
		if body[k] != v {
			t.Errorf("%s: got %v, want %v", k, body[k], v)
		}
	}

	var resp memes.GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Result.ImageURL != "https://img.example/meme.png" {
		t.Errorf("image url: got %q", resp.Result.ImageURL)
	}
	if resp.Notice.Description != "Your meme has been generated" {
		t.Errorf("notice: got %+v", resp.Notice)
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	client := &fakeClient{}
	h := newHarness(t, client)

	rec := h.do(t, promptRequest("   "))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}

	var body errorBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Notice.Title != "Missing input" || body.Notice.Description != "Please enter a meme prompt" {
		t.Errorf("notice: got %+v", body.Notice)
	}
	if client.calls.Load() != 0 {
		t.Errorf("requests: got %d, want 0", client.calls.Load())
	}
}

func TestGenerateMultipartWithImage(t *testing.T) {
	client := &fakeClient{imageURL: "https://img.example/1.png"}
	h := newHarness(t, client)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("prompt", "cat in a box")
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="ref.png"`)
	hdr.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(hdr)
	part.Write([]byte("png"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/memes", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := h.do(t, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if client.last.Prompt != "cat in a box" {
		t.Errorf("prompt: got %q", client.last.Prompt)
	}

	v := h.sys.View(h.session)
	if v.Image == nil || v.Image.Name != "ref.png" || !strings.HasPrefix(v.Preview, "data:image/png;base64,") {
		t.Errorf("view: got %+v", v)
	}
}

func TestGenerateRejectsNonImageReference(t *testing.T) {
	client := &fakeClient{}
	h := newHarness(t, client)

	_, err := h.sys.Generate(context.Background(), h.session, "cat", upload.NewFile("a.txt", "text/plain", []byte("x")))
	if memes.MapHTTPStatus(err) != http.StatusUnsupportedMediaType {
		t.Fatalf("err: got %v, want unsupported type", err)
	}
	if client.calls.Load() != 0 {
		t.Errorf("requests: got %d, want 0", client.calls.Load())
	}
	if n, ok := h.sys.TakeNotice(h.session); !ok || n.Kind != upload.NoticeUnsupported {
		t.Errorf("notice: got %+v", n)
	}
}

func TestDownload(t *testing.T) {
	client := &fakeClient{
		imageURL: "https://img.example/1.png",
		image:    &remote.Image{Data: []byte("\x89PNG"), ContentType: "image/png"},
	}
	h := newHarness(t, client)

	rec := h.do(t, httptest.NewRequest(http.MethodGet, "/memes/download", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status before generation: got %d, want 404", rec.Code)
	}

	if _, err := h.sys.Generate(context.Background(), h.session, "funny cat", nil); err != nil {
		t.Fatal(err)
	}

	rec = h.do(t, httptest.NewRequest(http.MethodGet, "/memes/download", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="generated-meme.png"` {
		t.Errorf("disposition: got %q", got)
	}
	if rec.Body.String() != "\x89PNG" {
		t.Errorf("body: got %q", rec.Body.String())
	}
	if client.fetches.Load() != 1 {
		t.Errorf("fetches: got %d, want 1", client.fetches.Load())
	}
}

func TestGenerateFailureClearsResult(t *testing.T) {
	client := &fakeClient{imageURL: "https://img.example/1.png"}
	h := newHarness(t, client)

	if _, err := h.sys.Generate(context.Background(), h.session, "one", nil); err != nil {
		t.Fatal(err)
	}

	client.err = &remote.StatusError{Code: http.StatusInternalServerError}
	rec := h.do(t, promptRequest("two"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status: got %d, want 502", rec.Code)
	}

	var body errorBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Notice.Description != "Failed to generate meme" {
		t.Errorf("notice: got %+v", body.Notice)
	}

	v := h.sys.View(h.session)
	if v.Status.Result != nil || !v.CanSubmit {
		t.Errorf("view after failure: got %+v", v.Status)
	}
	if _, err := h.sys.Download(context.Background(), h.session); err != memes.ErrNothingToDownload {
		t.Errorf("download after failure: got %v", err)
	}
}

func TestGenerateWhilePendingKeepsAcceptedPrompt(t *testing.T) {
	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	h := newHarness(t, client)

	done := make(chan error, 1)
	go func() {
		_, err := h.sys.Generate(context.Background(), h.session, "first", nil)
		done <- err
	}()

	<-client.started

	rec := h.do(t, promptRequest("second"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want 409", rec.Code)
	}
	if v := h.sys.View(h.session); v.Prompt != "first" || v.CanSubmit {
		t.Errorf("view while pending: prompt %q, can submit %v", v.Prompt, v.CanSubmit)
	}

	close(client.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if v := h.sys.View(h.session); v.Prompt != "first" {
		t.Errorf("prompt: got %q, want first", v.Prompt)
	}
}

func TestGenerateRejectedPromptLeavesView(t *testing.T) {
	client := &fakeClient{imageURL: "https://img.example/1.png"}
	h := newHarness(t, client)

	if _, err := h.sys.Generate(context.Background(), h.session, "one", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := h.sys.Generate(context.Background(), h.session, "  ", nil); err == nil {
		t.Fatal("blank prompt should be rejected")
	}
	if v := h.sys.View(h.session); v.Prompt != "one" {
		t.Errorf("prompt: got %q, want one", v.Prompt)
	}
}
