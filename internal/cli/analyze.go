package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/whiskers/internal/analyzer"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

func newAnalyzeCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Report whether the cat in a video clip is content, scared, or hungry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := upload.OpenFile(args[0])
			if err != nil {
				return err
			}

			wf := analyzer.NewWorkflow(e.remote, e.options()...)
			defer wf.Close()

			mood, err := wf.Submit(cmd.Context(), upload.Selection{File: file})
			if err != nil {
				return err
			}

			return e.emit(mood, func(w io.Writer) {
				fmt.Fprintf(w, "content: %s\n", yesno(mood.Content))
				fmt.Fprintf(w, "scared:  %s\n", yesno(mood.Scared))
				fmt.Fprintf(w, "hungry:  %s\n", yesno(mood.Hungry))
			})
		},
	}
}
