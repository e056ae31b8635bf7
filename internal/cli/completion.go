package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fontparts/partsmap/pkg/fonts"
	"github.com/fontparts/partsmap/pkg/model"
	"github.com/fontparts/partsmap/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for partsmap.

Besides the subcommands, the scripts complete flag values: node types for
--highlight, --dim and --layers, output formats for --format, built-in
fonts for --font, --blend-with and --title-font, and sequence modes for
animate --mode. Comma-separated lists complete item by item.

Bash:
  $ source <(partsmap completion bash)
  $ partsmap render --highlight gl<TAB>

Zsh:
  $ partsmap completion zsh > "${fpath[1]}/_partsmap"

Fish:
  $ partsmap completion fish > ~/.config/fish/completions/partsmap.fish

PowerShell:
  PS> partsmap completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

type completeFunc func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)

// registerCompletions attaches value completions to every flag of root's
// subcommands whose name is listed below.
func registerCompletions(root *cobra.Command) {
	nodeTypes := func() []string {
		var out []string
		for _, n := range model.FontParts().Types() {
			out = append(out, string(n))
		}
		return out
	}
	formats := func() []string { return sortedSet(pipeline.ValidFormats) }
	modes := func() []string { return sortedSet(pipeline.ValidModes) }

	funcs := map[string]completeFunc{
		"highlight":  valueCompletion(nodeTypes),
		"dim":        listCompletion(nodeTypes),
		"layers":     listCompletion(nodeTypes),
		"format":     listCompletion(formats),
		"mode":       valueCompletion(modes),
		"font":       valueCompletion(fonts.Names),
		"blend-with": valueCompletion(fonts.Names),
		"title-font": valueCompletion(fonts.Names),
	}
	for _, cmd := range root.Commands() {
		for name, fn := range funcs {
			if cmd.Flags().Lookup(name) != nil {
				_ = cmd.RegisterFlagCompletionFunc(name, fn)
			}
		}
	}
}

// valueCompletion completes a single value from items.
func valueCompletion(items func() []string) completeFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return matching(items(), "", toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// listCompletion completes the last item of a comma-separated value.
func listCompletion(items func() []string) completeFunc {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		head := toComplete[:strings.LastIndex(toComplete, ",")+1]
		return matching(items(), head, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

func matching(items []string, head, toComplete string) []string {
	var out []string
	for _, item := range items {
		if v := head + item; strings.HasPrefix(v, toComplete) {
			out = append(out, v)
		}
	}
	return out
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
