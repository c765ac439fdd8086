package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/whiskers/internal/memes"
	"github.com/JaimeStill/whiskers/pkg/upload"
)

type memeFlags struct {
	out      string
	width    int
	height   int
	steps    int
	seed     int
	negative string
}

func newMemeCommand(e *env) *cobra.Command {
	var f memeFlags

	cmd := &cobra.Command{
		Use:   "meme PROMPT...",
		Short: "Generate a meme image from a text prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := e.cfg.Generation
			overlay := memes.GenerationConfig{
				Width:             f.width,
				Height:            f.height,
				NumInferenceSteps: f.steps,
				NegativePrompt:    f.negative,
			}
			if cmd.Flags().Changed("seed") {
				overlay.Seed = &f.seed
			}
			gen.Merge(&overlay)

			wf := memes.NewWorkflow(e.remote, &gen, e.options()...)
			defer wf.Close()

			prompt := strings.Join(args, " ")
			result, err := wf.Submit(cmd.Context(), upload.Selection{Prompt: prompt})
			if err != nil {
				return err
			}

			if f.out != "" {
				img, err := e.remote.FetchImage(cmd.Context(), result.ImageURL)
				if err != nil {
					return fmt.Errorf("download meme: %w", err)
				}
				if err := os.WriteFile(f.out, img.Data, 0o644); err != nil {
					return err
				}
				e.logger.Info("meme saved", "path", f.out, "bytes", len(img.Data))
			}

			return e.emit(result, func(w io.Writer) {
				fmt.Fprintln(w, result.ImageURL)
			})
		},
	}

	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the generated image to this path")
	cmd.Flags().IntVar(&f.width, "width", 0, "image width (default from config)")
	cmd.Flags().IntVar(&f.height, "height", 0, "image height (default from config)")
	cmd.Flags().IntVar(&f.steps, "steps", 0, "inference steps (default from config)")
	cmd.Flags().IntVar(&f.seed, "seed", 0, "generation seed (default from config)")
	cmd.Flags().StringVar(&f.negative, "negative", "", "negative prompt")

	return cmd
}
