// Package notices turns workflow notices into localized, user-facing messages.
package notices

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

//go:embed locales/*.json
var locales embed.FS

// Message is a localized notice ready for display.
type Message struct {
	Level       upload.Level `json:"level"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
}

// Catalog localizes notices from the embedded message files.
type Catalog struct {
	bundle   *i18n.Bundle
	fallback string
}

// New loads every embedded locale file.
func New(cfg *Config) (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.json")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return &Catalog{
		bundle:   bundle,
		fallback: cfg.DefaultLanguage,
	}, nil
}

// Languages returns the tags with a loaded message file.
func (c *Catalog) Languages() []language.Tag {
	return c.bundle.LanguageTags()
}

// Localize renders n in the first of langs the catalog supports. Each entry may
// be a tag ("es") or an Accept-Language header value.
func (c *Catalog) Localize(n upload.Notice, langs ...string) Message {
	loc := i18n.NewLocalizer(c.bundle, append(langs, c.fallback)...)
	return Message{
		Level:       n.Level(),
		Title:       c.lookup(loc, n, "title"),
		Description: c.lookup(loc, n, "description"),
	}
}

// lookup tries the action-specific message before the generic one for the kind.
func (c *Catalog) lookup(loc *i18n.Localizer, n upload.Notice, field string) string {
	ids := []string{
		n.Action + "." + string(n.Kind) + "." + field,
		"notice." + string(n.Kind) + "." + field,
	}
	for _, id := range ids {
		if msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id}); err == nil {
			return msg
		}
	}
	return ""
}

// SystemLanguage converts a POSIX locale value such as "es_MX.UTF-8" into a
// language tag string. Unparseable values return "".
func SystemLanguage(posix string) string {
	if i := strings.IndexAny(posix, ".@"); i >= 0 {
		posix = posix[:i]
	}
	posix = strings.ReplaceAll(posix, "_", "-")
	if posix == "" || posix == "C" || posix == "POSIX" {
		return ""
	}
	tag, err := language.Parse(posix)
	if err != nil {
		return ""
	}
	return tag.String()
}
