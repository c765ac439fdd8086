// Package remote is the HTTP client for the external analysis and generation
// service. Every call issues exactly one request; nothing is retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

const (
	analyzerField  = "video"
	processorField = "file"

	maxErrorBody = 1024
)

// Client calls the remote service endpoints.
type Client struct {
	http   *http.Client
	cfg    Config
	logger *slog.Logger
	images singleflight.Group
}

// New creates a Client from a finalized Config.
func New(cfg *Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.TimeoutDuration()}, logger)
}

// NewWithHTTPClient creates a Client that sends requests through hc.
func NewWithHTTPClient(cfg *Config, hc *http.Client, logger *slog.Logger) *Client {
	return &Client{
		http:   hc,
		cfg:    *cfg,
		logger: logger.With("system", "remote"),
	}
}

// AnalyzeMedia uploads a video or audio clip and returns the mood classification.
func (c *Client) AnalyzeMedia(ctx context.Context, file *upload.File) (MoodAnalysis, error) {
	var resp analysisResponse
	if err := c.postFile(ctx, c.cfg.AnalyzerURL, analyzerField, file, &resp); err != nil {
		return MoodAnalysis{}, err
	}
	if resp.Analysis == nil {
		return MoodAnalysis{}, fmt.Errorf("%w: missing analysis", ErrMalformedResponse)
	}
	return *resp.Analysis, nil
}

// ProcessImage uploads an image and returns the text the service generated for it.
func (c *Client) ProcessImage(ctx context.Context, file *upload.File) (string, error) {
	var resp processResponse
	if err := c.postFile(ctx, c.cfg.ProcessorURL, processorField, file, &resp); err != nil {
		return "", err
	}
	if resp.GeneratedText == nil {
		return "", fmt.Errorf("%w: missing generated_text", ErrMalformedResponse)
	}
	return *resp.GeneratedText, nil
}

// GenerateImage requests an image for a prompt and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, req GenerateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode generate request: %w", err)
	}

	var resp generateResponse
	if err := c.do(ctx, c.cfg.GeneratorURL, "application/json", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	if resp.ImageURL == nil {
		return "", fmt.Errorf("%w: missing image_url", ErrMalformedResponse)
	}
	return *resp.ImageURL, nil
}

// FetchImage downloads a generated image. Concurrent fetches of the same URL
// share one request, which runs under its own fetch_timeout so one caller
// giving up does not cancel the others. A caller that gives up also drops
// the shared call, so the next fetch of that URL starts fresh.
func (c *Client) FetchImage(ctx context.Context, imageURL string) (*Image, error) {
	ch := c.images.DoChan(imageURL, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.FetchTimeoutDuration())
		defer cancel()
		return c.fetch(fetchCtx, imageURL)
	})

	select {
	case <-ctx.Done():
		c.images.Forget(imageURL)
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Image), nil
	}
}

// Ping checks that every configured endpoint answers HTTP. Any response,
// including an error status, counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, endpoint := range c.endpoints() {
		g.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
			if err != nil {
				return err
			}
			resp, err := c.http.Do(req)
			if err != nil {
				return fmt.Errorf("ping %s: %w", endpoint, err)
			}
			resp.Body.Close()
			c.logger.Debug("endpoint reachable", "endpoint", endpoint, "status", resp.StatusCode)
			return nil
		})
	}

	return g.Wait()
}

func (c *Client) endpoints() []string {
	seen := make(map[string]bool)
	var out []string
	for _, raw := range []string{c.cfg.AnalyzerURL, c.cfg.ProcessorURL, c.cfg.GeneratorURL} {
		if !seen[raw] {
			seen[raw] = true
			out = append(out, raw)
		}
	}
	return out
}

func (c *Client) fetch(ctx context.Context, imageURL string) (*Image, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid image url %q", imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	limit := c.cfg.MaxImageBytes()
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, limit)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	return &Image{Data: data, ContentType: ct}, nil
}

func (c *Client) postFile(ctx context.Context, endpoint, field string, file *upload.File, out any) error {
	if file == nil {
		return fmt.Errorf("no file to upload")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, escapeQuotes(file.Name)))
	h.Set("Content-Type", file.ContentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	return c.do(ctx, endpoint, mw.FormDataContentType(), &buf, out)
}

func (c *Client) do(ctx context.Context, endpoint, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("remote response", "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(data)),
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
