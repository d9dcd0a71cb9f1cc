package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionWriters generate the completion script for each supported shell.
var completionWriters = map[string]func(root *cobra.Command, w io.Writer) error{
	"bash": func(root *cobra.Command, w io.Writer) error { return root.GenBashCompletionV2(w, true) },
	"zsh":  func(root *cobra.Command, w io.Writer) error { return root.GenZshCompletion(w) },
	"fish": func(root *cobra.Command, w io.Writer) error { return root.GenFishCompletion(w, true) },
	"powershell": func(root *cobra.Command, w io.Writer) error {
		return root.GenPowerShellCompletionWithDesc(w)
	},
}

// completionCommand creates the completion command. Besides subcommands and
// flag names, the scripts complete --engine with the layout engines,
// --site-dir with directories and --config/--plotly-js with matching files.
func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionWriters))
	for shell := range completionWriters {
		shells = append(shells, shell)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion [" + strings.Join(shells, "|") + "]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for depsize.

The script completes the serve and completion subcommands, every flag, the
layout engines for --engine (fdp, neato, sfdp), directories for --site-dir,
*.toml files for --config and *.js files for --plotly-js.

Bash:
  $ source <(depsize completion bash)

Zsh:
  $ depsize completion zsh > "${fpath[1]}/_depsize"

Fish:
  $ depsize completion fish > ~/.config/fish/completions/depsize.fish

PowerShell:
  PS> depsize completion powershell | Out-String | Invoke-Expression

Then, for example:
  $ depsize --engine <TAB>
  fdp  neato  sfdp
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionWriters[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
