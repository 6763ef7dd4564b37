package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for archlinux-ai-cli.

To load completions:

Bash:
  $ source <(archlinux-ai-cli completion bash)

  # To load completions for each session, execute once:
  $ archlinux-ai-cli completion bash > /etc/bash_completion.d/archlinux-ai-cli

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ archlinux-ai-cli completion zsh > "${fpath[1]}/_archlinux-ai-cli"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ archlinux-ai-cli completion fish | source

  # To load completions for each session, execute once:
  $ archlinux-ai-cli completion fish > ~/.config/fish/completions/archlinux-ai-cli.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
