package notices

import (
	"net/http"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

// Localizer renders notices for display.
type Localizer interface {
	Localize(n upload.Notice, langs ...string) Message
}

// ForRequest localizes n for the caller of r. A ?lang= query value takes
// precedence over the Accept-Language header.
func ForRequest(l Localizer, r *http.Request, n upload.Notice) Message {
	return l.Localize(n, RequestLanguages(r)...)
}

// RequestLanguages returns the caller's language preferences, most preferred first.
func RequestLanguages(r *http.Request) []string {
	var langs []string
	if q := r.URL.Query().Get("lang"); q != "" {
		langs = append(langs, q)
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		langs = append(langs, h)
	}
	return langs
}
