package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JaimeStill/whiskers/pkg/upload"
)

// observer prints every workflow notice to stderr in the configured language.
func (e *env) observer() upload.Option {
	return upload.WithObserver(upload.ObserverFunc(func(n upload.Notice) {
		msg := e.catalog.Localize(n, e.lang)
		fmt.Fprintf(e.opts.Stderr, "[%s] %s: %s\n", msg.Level, msg.Title, msg.Description)
	}))
}

func (e *env) options() []upload.Option {
	return []upload.Option{e.observer(), upload.WithLogger(e.logger)}
}

// emit writes v as indented JSON when --json is set; otherwise text renders it.
func (e *env) emit(v any, text func(w io.Writer)) error {
	if e.jsonOut {
		enc := json.NewEncoder(e.opts.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(e.opts.Stdout)
	return nil
}

func yesno(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
