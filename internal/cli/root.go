// Package cli implements the whiskers command-line client. Each command drives
// the same upload workflow the web pages use.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/whiskers/internal/analyzer"
	"github.com/JaimeStill/whiskers/internal/config"
	"github.com/JaimeStill/whiskers/internal/editor"
	"github.com/JaimeStill/whiskers/internal/memes"
	"github.com/JaimeStill/whiskers/internal/notices"
	"github.com/JaimeStill/whiskers/pkg/remote"
)

// Remote is every backend call the commands make.
type Remote interface {
	analyzer.Client
	editor.Client
	memes.Client
}

// Options injects dependencies. Zero values load config.toml and talk to the
// configured remote service.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Remote Remote
}

type env struct {
	opts    Options
	cfg     *config.Config
	remote  Remote
	catalog *notices.Catalog
	lang    string
	logger  *slog.Logger
	verbose bool
	jsonOut bool
}

// NewRootCommand creates the root command.
func NewRootCommand(version string, opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	e := &env{opts: opts}

	rootCmd := &cobra.Command{
		Use:     "whiskers",
		Short:   "Cat mood analysis, image captions, and memes from the terminal",
		Version: version,
		Long: `whiskers sends a clip, image, or prompt to the remote inference service
and prints the result. Notices go to stderr; results go to stdout.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
	}
	rootCmd.SetOut(opts.Stdout)
	rootCmd.SetErr(opts.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&e.jsonOut, "json", false, "print results as JSON")

	rootCmd.AddCommand(newAnalyzeCommand(e))
	rootCmd.AddCommand(newDescribeCommand(e))
	rootCmd.AddCommand(newMemeCommand(e))

	return rootCmd
}

func (e *env) setup() error {
	cfg := e.opts.Config
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
	}
	e.cfg = cfg

	if e.verbose {
		cfg.Logging.Level = "debug"
	}
	e.logger = cfg.Logging.NewLogger(e.opts.Stderr).With("system", "cli")

	catalog, err := notices.New(&cfg.Locale)
	if err != nil {
		return fmt.Errorf("load notices: %w", err)
	}
	e.catalog = catalog
	e.lang = notices.SystemLanguage(os.Getenv("LANG"))

	e.remote = e.opts.Remote
	if e.remote == nil {
		e.remote = remote.New(&cfg.Remote, e.logger)
	}
	return nil
}
