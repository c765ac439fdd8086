package upload_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

func TestNewFileContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	tests := []struct {
		name     string
		declared string
		data     []byte
		prefix   string
	}{
		{"declared wins", "video/mp4", []byte("anything"), "video/mp4"},
		{"octet-stream sniffed", "application/octet-stream", png, "image/png"},
		{"empty sniffed", "", png, "image/png"},
		{"plain text sniffed", "", []byte("just some text"), "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := upload.NewFile("f", tt.declared, tt.data)
			if !strings.HasPrefix(f.ContentType, tt.prefix) {
				t.Errorf("content type: got %q, want prefix %q", f.ContentType, tt.prefix)
			}
		})
	}
}

func TestPreviewURL(t *testing.T) {
	f := upload.NewFile("cat.png", "image/png; charset=binary", []byte("abc"))
	if got, want := f.PreviewURL(), "data:image/png;base64,YWJj"; got != want {
		t.Errorf("preview: got %q, want %q", got, want)
	}

	info := f.Info()
	if info.Name != "cat.png" || info.Size != 3 {
		t.Errorf("info: got %+v", info)
	}
}

func TestSelectionEmpty(t *testing.T) {
	if !(upload.Selection{}).Empty() {
		t.Error("zero selection should be empty")
	}
	if !(upload.Selection{Prompt: "   "}).Empty() {
		t.Error("blank prompt should be empty")
	}
	if (upload.Selection{Prompt: "funny cat"}).Empty() {
		t.Error("prompt selection should not be empty")
	}
}

func TestValidators(t *testing.T) {
	image := upload.NewFile("cat.png", "image/png", []byte("png"))
	text := upload.NewFile("notes.txt", "text/plain", []byte("meow"))
	audio := upload.NewFile("meow.wav", "AUDIO/WAV", []byte("wav"))

	memes := upload.All(upload.RequirePrompt(), upload.OptionalFile("image/"))
	analyzer := upload.AcceptFile("video/", "audio/")

	tests := []struct {
		name     string
		validate upload.Validator
		sel      upload.Selection
		reason   upload.NoticeKind
	}{
		{"prompt only", memes, upload.Selection{Prompt: "funny cat"}, ""},
		{"prompt and image", memes, upload.Selection{Prompt: "funny cat", File: image}, ""},
		{"prompt and text file", memes, upload.Selection{Prompt: "funny cat", File: text}, upload.NoticeUnsupported},
		{"image without prompt", memes, upload.Selection{File: image}, upload.NoticeMissing},
		{"nothing", memes, upload.Selection{}, upload.NoticeMissing},
		{"audio uppercase", analyzer, upload.Selection{File: audio}, ""},
		{"image for analyzer", analyzer, upload.Selection{File: image}, upload.NoticeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.sel)
			if tt.reason == "" {
				if err != nil {
					t.Errorf("got %v, want nil", err)
				}
				return
			}

			var valErr *upload.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if valErr.Reason != tt.reason {
				t.Errorf("reason: got %s, want %s", valErr.Reason, tt.reason)
			}
		})
	}
}

func multipartRequest(t *testing.T, field, name, contentType string, data []byte, extra map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(data)
	}
	for k, v := range extra {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestFormFile(t *testing.T) {
	req := multipartRequest(t, "file", "cat.mp4", "video/mp4", []byte("frames"), nil)

	f, err := upload.FormFile(req, 1<<20, "video", "file")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if f == nil {
		t.Fatal("expected a file")
	}
	if f.Name != "cat.mp4" || f.ContentType != "video/mp4" || string(f.Data) != "frames" {
		t.Errorf("file: got %+v", f.Info())
	}
}

func TestFormFileAbsent(t *testing.T) {
	req := multipartRequest(t, "", "", "", nil, map[string]string{"prompt": "funny cat"})

	f, err := upload.FormFile(req, 1<<20, "image")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if f != nil {
		t.Errorf("expected no file, got %+v", f.Info())
	}
	if req.FormValue("prompt") != "funny cat" {
		t.Errorf("prompt field should remain readable")
	}
}

func TestFormFileTooLarge(t *testing.T) {
	req := multipartRequest(t, "file", "big.png", "image/png", bytes.Repeat([]byte("x"), 4096), nil)

	_, err := upload.FormFile(req, 512, "file")
	if !errors.Is(err, upload.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if upload.MapHTTPStatus(err) != http.StatusRequestEntityTooLarge {
		t.Errorf("status: got %d, want 413", upload.MapHTTPStatus(err))
	}
}

func TestFormFileNotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"prompt":"funny cat"}`))
	req.Header.Set("Content-Type", "application/json")

	f, err := upload.FormFile(req, 1<<20, "file")
	if err != nil || f != nil {
		t.Errorf("got file=%v err=%v, want nil, nil", f, err)
	}
}
