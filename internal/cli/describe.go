package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/whiskers/internal/editor"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

func newDescribeCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "describe FILE",
		Short: "Generate text for an image and print its share links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := upload.OpenFile(args[0])
			if err != nil {
				return err
			}

			wf := editor.NewWorkflow(e.remote, &e.cfg.Share, e.options()...)
			defer wf.Close()

			result, err := wf.Submit(cmd.Context(), upload.Selection{File: file})
			if err != nil {
				return err
			}

			return e.emit(result, func(w io.Writer) {
				fmt.Fprintln(w, result.GeneratedText)
				fmt.Fprintln(w)
				fmt.Fprintf(w, "%-9s %s\n", "share", result.ShareURL)
				for _, link := range result.ShareLinks {
					fmt.Fprintf(w, "%-9s %s\n", link.Network, link.URL)
				}
			})
		},
	}
}
