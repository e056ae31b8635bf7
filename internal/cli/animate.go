package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fontparts/partsmap/pkg/pipeline"
)

// animateOpts holds the flags of the animate command on top of the
// diagram flags.
type animateOpts struct {
	renderOpts
	mode        string
	count       int
	format      string
	parallelism int
}

// animateCommand creates the animate command for rendering frame sequences.
func (c *CLI) animateCommand() *cobra.Command {
	opts := animateOpts{
		renderOpts: newRenderOpts(defaultOutput),
		mode:       pipeline.ModeHighlight,
		count:      pipeline.DefaultFrameCount,
		format:     pipeline.FormatSVG,
	}

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Render an animated frame sequence",
		Long: `Render the diagram as a sequence of frames, one file per frame.

Modes:
  highlight  one frame per node type, every other type dimmed
  jitter     --count frames with successive jitter seeds

Frames are written as <output>_NNN.<format>.`,
		Example: `  partsmap animate -o frames/map
  partsmap animate --mode jitter --randomness 8 --count 24 --format png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnimate(cmd, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "base path of the frame files")
	cmd.Flags().StringVar(&opts.mode, "mode", opts.mode, "sequence mode: highlight, jitter")
	cmd.Flags().IntVar(&opts.count, "count", opts.count, "number of jitter frames")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "frame format: svg, png, json, dot")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "frames rendered at once (0 = one per CPU)")
	opts.register(cmd)

	return cmd
}

func (c *CLI) runAnimate(cmd *cobra.Command, opts *animateOpts) error {
	if opts.mode == pipeline.ModeHighlight && cmd.Flags().Changed("count") {
		printWarning("--count is ignored in highlight mode")
	}
	fo := pipeline.FrameOptions{
		Options:     c.diagramOptions(cmd, &opts.renderOpts),
		Mode:        opts.mode,
		Count:       opts.count,
		Format:      opts.format,
		Parallelism: opts.parallelism,
	}

	prog := newProgress(c.Logger)
	var frames []pipeline.Frame
	var err error
	if c.tty != nil {
		frames, err = c.framesWithProgress(cmd.Context(), fo)
	} else {
		frames, err = c.newRunner().Frames(cmd.Context(), fo)
	}
	if err != nil {
		return err
	}

	if dir := filepath.Dir(opts.output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for _, f := range frames {
		path := framePath(opts.output, f.Index, opts.format)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return err
		}
		c.Logger.Debug("wrote frame", "path", path, "label", f.Label)
	}
	prog.done("wrote frames", "count", len(frames), "mode", fo.Mode)
	printSuccess("Rendered %d frames", len(frames))
	if len(frames) > 0 {
		printDetail("%s … %s", framePath(opts.output, 0, opts.format), framePath(opts.output, len(frames)-1, opts.format))
	}
	return nil
}

// framesWithProgress renders the sequence while a bubbletea program shows
// its progress. Quitting the program cancels the remaining frames.
func (c *CLI) framesWithProgress(ctx context.Context, fo pipeline.FrameOptions) ([]pipeline.Frame, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewFrameProgressModel(0, cancel), tea.WithOutput(c.tty), tea.WithContext(ctx))
	runner := c.newRunner()
	runner.Hooks = teaHooks{send: p.Send}

	var frames []pipeline.Frame
	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		frames, runErr = runner.Frames(ctx, fo)
		p.Send(framesFinishedMsg{err: runErr})
	}()

	_, teaErr := p.Run()
	if teaErr != nil {
		c.Logger.Debug("progress display stopped", "error", teaErr)
	}
	// the sequence keeps rendering when the display fails; wait for it
	<-done
	if runErr != nil {
		return nil, runErr
	}
	return frames, nil
}

// framePath names frame i of a sequence.
func framePath(base string, i int, format string) string {
	return fmt.Sprintf("%s_%03d.%s", base, i, format)
}
