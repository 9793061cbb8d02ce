package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JustNello/punctual/internal/tui"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	Long: `Launch the interactive planner.

Type an activity, optionally a start time (HH:MM), and press Enter: the
schedule is rebuilt with every activity entered during the session. The
synonyms file and --online, --ai and --contingency apply as on the command line.

Keyboard shortcuts:
  - Enter: Schedule the activity
  - Tab/Shift+Tab: Switch between activity and start time
  - Ctrl+Z: Remove the last activity
  - Ctrl+R: Clear the schedule
  - Ctrl+L: Resolve every activity again
  - Ctrl+Y: Copy the report to the clipboard
  - Ctrl+T: Next theme
  - F1: Show help
  - Esc: Quit`,
	Run: func(cmd *cobra.Command, args []string) {
		runTUI(planOptionsFromFlags(cmd))
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	// Add --tui flag to root command for quick access
	rootCmd.PersistentFlags().Bool("tui", false, "Launch interactive terminal UI")
}

// runTUI initializes and runs the TUI application
func runTUI(opts planOptions) {
	cfg, ok := loadEffectiveConfig(opts.overrides)
	if !ok {
		return
	}

	// Logs would corrupt the alternate screen
	logger := zerolog.Nop()
	if opts.verbose {
		logger = newLogger(true)
	}

	planner, ok := newPlanner(cfg, logger)
	if !ok {
		return
	}

	err := tui.Run(tui.Options{
		Planner:   planner,
		Syntax:    cfg.Syntax(),
		Theme:     cfg.Theme,
		Clipboard: deps.Clipboard,
		Now:       deps.Now,
	})
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error running TUI: %v\n", err)
		deps.Exit(1)
	}
}

// CheckTUIFlag checks if the --tui flag is set and runs the TUI if so.
// Returns true if the TUI was launched, false otherwise.
func CheckTUIFlag(cmd *cobra.Command) bool {
	tuiFlag, _ := cmd.Root().PersistentFlags().GetBool("tui")
	if tuiFlag {
		runTUI(planOptionsFromFlags(cmd))
		return true
	}
	return false
}

