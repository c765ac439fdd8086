package editor

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// ShareConfig controls the shareable links built from a processed image's text.
type ShareConfig struct {
	BaseURL     string `toml:"base_url"`
	TextPrefix  string `toml:"text_prefix"`
	QuotePrefix string `toml:"quote_prefix"`
}

// ShareEnv maps config fields to environment variable names for override injection.
type ShareEnv struct {
	BaseURL string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ShareConfig) Finalize(env *ShareEnv) error {
	c.loadDefaults()
	if env != nil && env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ShareConfig) Merge(overlay *ShareConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.TextPrefix != "" {
		c.TextPrefix = overlay.TextPrefix
	}
	if overlay.QuotePrefix != "" {
		c.QuotePrefix = overlay.QuotePrefix
	}
}

func (c *ShareConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://yourwebsite.com/share"
	}
	if c.TextPrefix == "" {
		c.TextPrefix = "AI Response: "
	}
	if c.QuotePrefix == "" {
		c.QuotePrefix = "Check out this AI-generated description: "
	}
}

func (c *ShareConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	return nil
}

// ShareURL returns the shareable link for generated text:
// <base_url>?text=<escaped prefix+text>.
func (c *ShareConfig) ShareURL(text string) string {
	return c.BaseURL + "?text=" + escapeComponent(c.TextPrefix+text)
}

// ShareLink is a ready-made link for one social network.
type ShareLink struct {
	Network string `json:"network"`
	URL     string `json:"url"`
}

// Links returns per-network share links pointing at shareURL.
func (c *ShareConfig) Links(shareURL, text string) []ShareLink {
	quote := escapeComponent(c.QuotePrefix + text)
	u := escapeComponent(shareURL)
	return []ShareLink{
		{Network: "facebook", URL: "https://www.facebook.com/sharer/sharer.php?u=" + u + "&quote=" + quote},
		{Network: "twitter", URL: "https://twitter.com/intent/tweet?url=" + u + "&text=" + quote},
		{Network: "whatsapp", URL: "https://api.whatsapp.com/send?text=" + quote + "%20" + u},
		{Network: "linkedin", URL: "https://www.linkedin.com/sharing/share-offsite/?url=" + u},
	}
}

// componentUnescaper undoes QueryEscape for the characters a browser's
// encodeURIComponent keeps literal, and writes spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// escapeComponent escapes s for a query value the way encodeURIComponent does.
func escapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
