// Package cli implements the partsmap command-line interface.
//
// Every command renders from one configuration snapshot: the defaults,
// overlaid with the file named by --config, overlaid with the command's
// own flags. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - render: the radial diagram as svg, png, json or dot
//   - graph: the hierarchy as a Graphviz node-link graph
//   - swatches: the colour swatch sheet
//   - logotype: a word drawn as annotated glyph outlines
//   - animate: a frame sequence, one file per frame
//   - palette: the derived colours as a terminal table
//   - config: print the effective configuration as TOML
//   - serve: the HTTP server
//   - completion: shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is passed through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/fontparts/partsmap/pkg/buildinfo"
	"github.com/fontparts/partsmap/pkg/config"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and default output.
	appName = "partsmap"

	// defaultOutput is the base path of rendered files.
	defaultOutput = "fontparts"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// tty is the log writer when it is an interactive terminal; spinners
	// and progress displays draw there. Nil disables them.
	tty *os.File

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level), cfg: config.Default()}
	if f, ok := w.(*os.File); ok && isTerminal(f) {
		c.tty = f
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "partsmap draws the FontParts object model as a radial map",
		Long:         `partsmap renders the FontParts object model as a radial diagram of coloured circles, together with its colour swatch sheet, an annotated glyph logotype and animated highlight sequences.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		// errors are printed once, by main
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "configuration file (.toml, .yaml or .yml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.swatchesCommand())
	root.AddCommand(c.logotypeCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())
	registerCompletions(root)

	return root
}

// loadConfig replaces the default snapshot with the --config file.
func (c *CLI) loadConfig() error {
	if c.configPath == "" {
		c.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	c.cfg = cfg
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return splitList(s)
}

// parseNodeTypes parses a comma-separated list of node types.
func parseNodeTypes(s string) []model.NodeType {
	items := splitList(s)
	out := make([]model.NodeType, len(items))
	for i, item := range items {
		out[i] = model.NodeType(item)
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// outputPath returns where the artifact of format goes. A base with an
// extension is used as-is when it is the only artifact; otherwise the
// extension is replaced by the format.
func outputPath(base, format string, single bool) string {
	ext := filepath.Ext(base)
	if single && ext != "" {
		return base
	}
	return strings.TrimSuffix(base, ext) + "." + format
}

// writeArtifacts writes every artifact next to base and prints the paths.
func writeArtifacts(base string, formats []string, artifacts map[string][]byte) error {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	for _, format := range formats {
		path := outputPath(base, format, len(formats) == 1)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
