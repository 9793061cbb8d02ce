package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JustNello/punctual/internal/config"
	"github.com/JustNello/punctual/internal/service"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or manage configuration settings",
	Long: `Display the current effective configuration settings for punctual.

Shows the configuration file location, whether it exists, and all current settings.
Configuration values are merged from the config file with sensible defaults.

By default, punctual works offline without any configuration file:
  - contingency_minutes: 2
  - resolvers: trip, standard, ai (trip and ai only when enabled)
  - default_output_format: table

Values of the form ${NAME} are read from the environment, which keeps API
keys out of the file.

Examples:

  Display current configuration:
    punctual config                  Show all current settings

  Create a sample configuration file:
    punctual config --init

Configuration file location:
  ~/.config/punctual/config.toml     Linux
  %APPDATA%\punctual\config.toml     Windows`,
	Run: func(cmd *cobra.Command, args []string) {
		if initFlag, _ := cmd.Flags().GetBool("init"); initFlag {
			initConfig()
			return
		}
		showConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("init", false, "Write a sample config file")
}

// initConfig writes the sample config file
func initConfig() {
	configPath, err := deps.ConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return
	}

	if err := service.NewConfigService(configPath, config.DefaultConfig()).Init(); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to create config file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Remove or edit the existing file: %s\n", configPath)
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintf(deps.Stdout, "Created config file: %s\n", configPath)
}

// showConfig displays the current effective configuration
func showConfig() {
	configPath, err := deps.ConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return
	}

	fileExists := false
	if _, err := os.Stat(configPath); err == nil {
		fileExists = true
	}

	// Load config (will use defaults if file doesn't exist)
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that your config file is valid TOML format: %s\n", configPath)
		_, _ = fmt.Fprintf(deps.Stderr, "Valid default_output_format values: %s\n", strings.Join(config.OutputFormats, ", "))
		_, _ = fmt.Fprintln(deps.Stderr, "Valid resolvers: trip, standard, ai")
		deps.Exit(1)
		return
	}

	_, _ = fmt.Fprintln(deps.Stdout, "Configuration for punctual")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("=", 60))
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintf(deps.Stdout, "Config file:     %s\n", configPath)
	if fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          File exists (using custom configuration)")
	} else {
		_, _ = fmt.Fprintln(deps.Stdout, "Status:          No config file (using defaults)")
	}
	_, _ = fmt.Fprintln(deps.Stdout)

	_, _ = fmt.Fprintln(deps.Stdout, "Current Settings:")
	_, _ = fmt.Fprintln(deps.Stdout, strings.Repeat("-", 60))
	_, _ = fmt.Fprintf(deps.Stdout, "Contingency:     %d minutes\n", cfg.ContingencyMinutes)
	_, _ = fmt.Fprintf(deps.Stdout, "Resolvers:       %s\n", strings.Join(cfg.Resolvers, ", "))
	_, _ = fmt.Fprintf(deps.Stdout, "Online:          %s\n", onOff(cfg.Online))
	_, _ = fmt.Fprintf(deps.Stdout, "AI:              %s\n", onOff(cfg.AI))
	_, _ = fmt.Fprintf(deps.Stdout, "Output Format:   %s\n", cfg.DefaultOutputFormat)
	if cfg.SynonymsFile == "" {
		_, _ = fmt.Fprintln(deps.Stdout, "Synonyms File:   (none)")
	} else {
		_, _ = fmt.Fprintf(deps.Stdout, "Synonyms File:   %s\n", cfg.SynonymsFile)
	}
	_, _ = fmt.Fprintf(deps.Stdout, "Syntax:          comment %q, trip %q, detail %q\n",
		cfg.CommentMarker, cfg.TripSeparator, cfg.DetailSeparator)
	_, _ = fmt.Fprintf(deps.Stdout, "Theme:           %s\n", cfg.Theme)
	_, _ = fmt.Fprintf(deps.Stdout, "Mapbox:          profile %s, token %s\n", cfg.Mapbox.Profile, secret(cfg.Mapbox.Token))
	_, _ = fmt.Fprintf(deps.Stdout, "OpenAI:          model %s, api key %s\n", cfg.OpenAI.Model, secret(cfg.OpenAI.APIKey))

	_, _ = fmt.Fprintln(deps.Stdout)

	if !fileExists {
		_, _ = fmt.Fprintln(deps.Stdout, "Tip: Run 'punctual config --init' to create a config file at the above location.")
		_, _ = fmt.Fprintln(deps.Stdout)
	}
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// secret hides everything but whether a credential is set
func secret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "(set)"
}
