package app

import (
	"os"
	"strings"

	"github.com/blackwell-systems/opacctl/internal/catalog"
	"github.com/spf13/cobra"
)

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell autocompletion scripts",
		Long: `Generate autocompletion scripts for your shell. Book IDs complete from
the locally cached catalog.

Examples:
  # Bash (add to ~/.bashrc)
  source <(opacctl completion bash)

  # Zsh (add to ~/.zshrc)
  source <(opacctl completion zsh)

  # Fish
  opacctl completion fish > ~/.config/fish/completions/opacctl.fish

  # PowerShell
  opacctl completion powershell | Out-String | Invoke-Expression`,
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return cmd.Help()
			}
		},
	}

	return cmd
}

// completeBookIDs completes the first argument with book IDs, described
// by title. Only local data is used so completion never waits on the API.
func completeBookIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 || sess == nil || cfg == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	books, _, err := catalog.NewManager(nil, sess, cfg.Catalog.Path).Local()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return bookCompletions(books, toComplete), cobra.ShellCompDirectiveNoFileComp
}

func bookCompletions(books []catalog.Book, prefix string) []string {
	var out []string
	for _, b := range books {
		if strings.HasPrefix(b.ID, prefix) {
			out = append(out, b.ID+"\t"+b.Title)
		}
	}
	return out
}
