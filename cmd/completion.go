package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// completionGenerators writes the completion script of each supported shell
var completionGenerators = map[string]func(w io.Writer) error{
	"bash":       rootCmd.GenBashCompletion,
	"zsh":        rootCmd.GenZshCompletion,
	"fish":       func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
	"powershell": rootCmd.GenPowerShellCompletionWithDesc,
}

var supportedShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate a shell completion script for punctual, completing commands,
flags and file names (entries, synonyms and refills files).

Load it for the current session:
  source <(punctual completion bash)
  source <(punctual completion zsh)
  punctual completion fish | source
  punctual completion powershell | Out-String | Invoke-Expression

Install it permanently:
  punctual completion bash > ~/.local/share/bash-completion/completions/punctual
  punctual completion zsh > "${fpath[1]}/_punctual"
  punctual completion fish > ~/.config/fish/completions/punctual.fish`,
	ValidArgs: supportedShells,
	Args:      cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		generateCompletion(args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

// generateCompletion writes the completion script for shell to stdout
func generateCompletion(shell string) {
	generate, ok := completionGenerators[shell]
	if !ok {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Unsupported shell '%s'\n", shell)
		_, _ = fmt.Fprintf(deps.Stderr, "Supported shells: %s\n", strings.Join(supportedShells, ", "))
		deps.Exit(1)
		return
	}

	if err := generate(deps.Stdout); err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to generate %s completion: %v\n", shell, err)
		deps.Exit(1)
	}
}
