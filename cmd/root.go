package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/JustNello/punctual/internal/cli"
	"github.com/JustNello/punctual/internal/config"
	"github.com/JustNello/punctual/internal/logging"
	"github.com/JustNello/punctual/internal/schedule"
	"github.com/JustNello/punctual/internal/service"
	"github.com/JustNello/punctual/internal/synonym"
	"github.com/JustNello/punctual/internal/timeutil"
)

var rootCmd = &cobra.Command{
	Use:   "punctual <entries-file|->",
	Short: "Turn a list of activities into a timetable",
	Long: `punctual reads one activity per line and lays them out as a timetable for the day.

Each line is one of:
  45m, 1h30m                                   A literal duration
  shower                                       A name looked up in the synonyms file
  Colosseo, Roma -> Piazza Navona, Roma        A trip, timed with Mapbox (--online)
  Eating pizza                                 Anything else, estimated with OpenAI (--ai)

Append "; HH:MM" to pin an activity to a start time, e.g. "30m; 14:00".
Lines starting with '#' are ignored.

Usage:
  punctual day.txt                             Schedule the activities in day.txt
  punctual - < day.txt                         Read activities from stdin
  punctual day.txt --start 13:29               Start the first activity at 13:29
  punctual day.txt --synonyms synonyms.txt     Resolve names from a synonyms file
  punctual day.txt --insert '1=breakfast'      Insert an activity before the second one
  punctual day.txt --format text --copy        Print the plain report and copy it

Synonyms file format: one "name, minutes" pair per line (minutes may be 1h30m)`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if CheckTUIFlag(cmd) {
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}

		planSchedule(args[0], planOptionsFromFlags(cmd))
	},
}

// planOptions holds the root command flags
type planOptions struct {
	overrides service.Overrides
	start     string
	copy      bool
	inserts   []string
	verbose   bool
}

func init() {
	addResolverFlags(rootCmd.PersistentFlags())
	addScheduleFlags(rootCmd.Flags())
}

// addResolverFlags registers the flags shared by the root and tui commands
func addResolverFlags(flags *pflag.FlagSet) {
	flags.String("synonyms", "", "Path to the synonyms file")
	flags.Bool("online", false, "Resolve trips with Mapbox")
	flags.Bool("ai", false, "Estimate unknown activities with OpenAI")
	flags.Int("contingency", 0, "Minutes added to every activity (default from config)")
	flags.BoolP("verbose", "v", false, "Log resolver activity to stderr")
}

func addScheduleFlags(flags *pflag.FlagSet) {
	flags.String("start", "", "Start of the first activity (HH:MM or 'YYYY-MM-DD HH:MM')")
	flags.StringP("format", "f", "", "Output format: table, text, json, csv")
	flags.Bool("copy", false, "Copy the rendered schedule to the clipboard")
	flags.StringArray("insert", nil, "Insert an activity at a 0-based index (INDEX=LINE), repeatable")
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		"punctual version {{.Version}}\n" +
			"commit: " + commit + "\n" +
			"built: " + date + "\n",
	)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// planOptionsFromFlags collects the flags of cmd. Only flags set on the
// command line override the config file.
func planOptionsFromFlags(cmd *cobra.Command) planOptions {
	var opts planOptions
	flags := cmd.Flags()

	if flags.Changed("online") {
		v, _ := flags.GetBool("online")
		opts.overrides.Online = &v
	}
	if flags.Changed("ai") {
		v, _ := flags.GetBool("ai")
		opts.overrides.AI = &v
	}
	if flags.Changed("contingency") {
		v, _ := flags.GetInt("contingency")
		opts.overrides.Contingency = &v
	}
	opts.overrides.SynonymsFile, _ = flags.GetString("synonyms")
	opts.overrides.Format, _ = flags.GetString("format")
	opts.start, _ = flags.GetString("start")
	opts.copy, _ = flags.GetBool("copy")
	opts.inserts, _ = flags.GetStringArray("insert")
	opts.verbose, _ = flags.GetBool("verbose")
	return opts
}

// planSchedule builds, renders and optionally copies the schedule of the entries file
func planSchedule(path string, opts planOptions) {
	cfg, ok := loadEffectiveConfig(opts.overrides)
	if !ok {
		return
	}
	logger := newLogger(opts.verbose)

	lines, err := readLines(path)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read entries")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the file exists and is readable: %s\n", path)
		deps.Exit(1)
		return
	}

	planner, ok := newPlanner(cfg, logger)
	if !ok {
		return
	}

	var start *time.Time
	if opts.start != "" {
		at, err := timeutil.ParseStart(opts.start, deps.Now())
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid start '%s'\n", opts.start)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use HH:MM (e.g., 13:29) or 'YYYY-MM-DD HH:MM'")
			deps.Exit(1)
			return
		}
		start = &at
	}

	inserts := make([]insertion, 0, len(opts.inserts))
	for _, value := range opts.inserts {
		ins, err := parseInsert(value)
		if err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Invalid insert '%s'\n", value)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Use INDEX=LINE, e.g. --insert '1=30m; 08:00'")
			deps.Exit(1)
			return
		}
		inserts = append(inserts, ins)
	}

	ctx := context.Background()
	sched, err := planner.Plan(ctx, lines, start)
	if err != nil {
		printPlanError(err)
		return
	}

	for _, ins := range inserts {
		if _, err := planner.Insert(ctx, sched, ins.index, ins.line); err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Error: Failed to insert '%s' at %d\n", ins.line, ins.index)
			_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
			if errors.Is(err, schedule.ErrIndexOutOfRange) {
				_, _ = fmt.Fprintf(deps.Stderr, "Hint: The schedule has %d %s; use an index between 0 and %d\n",
					sched.Len(), cli.Pluralize("entry", sched.Len()), sched.Len())
			}
			deps.Exit(1)
			return
		}
	}

	warnUnresolved(sched)

	report, err := sched.Report()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to build report")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}

	format, err := cli.ParseFormat(cfg.DefaultOutputFormat)
	if err != nil {
		_, _ = fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Valid formats: %s\n", strings.Join(config.OutputFormats, ", "))
		deps.Exit(1)
		return
	}

	var out bytes.Buffer
	if err := cli.Render(&out, report, format); err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to render schedule")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		deps.Exit(1)
		return
	}
	_, _ = deps.Stdout.Write(out.Bytes())

	if opts.copy {
		if err := deps.Clipboard(out.String()); err != nil {
			_, _ = fmt.Fprintf(deps.Stderr, "Warning: Failed to copy schedule to clipboard: %v\n", err)
			return
		}
		_, _ = fmt.Fprintln(deps.Stderr, "Schedule copied to clipboard")
	}
}

// loadEffectiveConfig loads the config file and applies the command line overrides
func loadEffectiveConfig(overrides service.Overrides) (config.Config, bool) {
	configPath, err := deps.ConfigPath()
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to determine config file location")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Check that your home directory is accessible")
		deps.Exit(1)
		return config.Config{}, false
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to load configuration")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that your config file is valid TOML format: %s\n", configPath)
		deps.Exit(1)
		return config.Config{}, false
	}

	effective, err := service.NewConfigService(configPath, cfg).Effective(overrides)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Invalid options")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Valid formats: %s; contingency cannot be negative\n", strings.Join(config.OutputFormats, ", "))
		deps.Exit(1)
		return config.Config{}, false
	}
	return effective, true
}

// newPlanner loads the synonyms file and builds the resolver chain described by cfg
func newPlanner(cfg config.Config, logger zerolog.Logger) (*service.PlanService, bool) {
	synonyms, warnings, err := service.LoadSynonyms(cfg.SynonymsFile, cfg)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to read synonyms file")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintf(deps.Stderr, "Hint: Check that the file exists and is readable: %s\n", cfg.SynonymsFile)
		deps.Exit(1)
		return nil, false
	}
	printSynonymWarnings(warnings)

	chain, err := service.BuildChain(cfg, synonyms, logger)
	if err != nil {
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to set up duration resolvers")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		switch {
		case errors.Is(err, service.ErrMissingToken):
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Set [mapbox] token in your config file, e.g. token = \"${MAPBOX_TOKEN}\"")
		case errors.Is(err, service.ErrMissingKey):
			_, _ = fmt.Fprintln(deps.Stderr, "Hint: Set [openai] api_key in your config file, e.g. api_key = \"${OPENAI_API_KEY}\"")
		}
		deps.Exit(1)
		return nil, false
	}

	return service.NewPlanServiceWithChain(chain, logger, deps.Now), true
}

func newLogger(verbose bool) zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(deps.Stderr, level, false)
}

func printPlanError(err error) {
	switch {
	case errors.Is(err, service.ErrNoEntries):
		_, _ = fmt.Fprintln(deps.Stderr, "Error: No entries to schedule")
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Write one activity per line, e.g. '45m' or 'shower'")
	default:
		_, _ = fmt.Fprintln(deps.Stderr, "Error: Failed to build schedule")
		_, _ = fmt.Fprintf(deps.Stderr, "Details: %v\n", err)
		_, _ = fmt.Fprintln(deps.Stderr, "Hint: Pinned start times use the format 'activity; HH:MM'")
	}
	deps.Exit(1)
}

func printSynonymWarnings(warnings []synonym.ParseWarning) {
	if len(warnings) == 0 {
		return
	}
	_, _ = fmt.Fprintf(deps.Stderr, "Warning: Skipped %d malformed %s in synonyms file:\n", len(warnings), cli.Pluralize("line", len(warnings)))
	for _, warning := range warnings {
		_, _ = fmt.Fprintln(deps.Stderr, cli.FormatSynonymWarning(warning))
	}
	_, _ = fmt.Fprintln(deps.Stderr)
}

func warnUnresolved(sched *schedule.Schedule) {
	for _, e := range sched.Entries() {
		if e.Unresolved() {
			_, _ = fmt.Fprintf(deps.Stderr, "Warning: No duration found for '%s', scheduled with contingency only\n", e.Name())
		}
	}
}

// readLines reads the entries file, or stdin when path is "-"
func readLines(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = deps.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// insertion is a parsed --insert value
type insertion struct {
	index int
	line  string
}

// parseInsert parses "INDEX=LINE"
func parseInsert(value string) (insertion, error) {
	index, line, found := strings.Cut(value, "=")
	if !found {
		return insertion{}, fmt.Errorf("missing '=' between index and line")
	}

	i, err := strconv.Atoi(strings.TrimSpace(index))
	if err != nil || i < 0 {
		return insertion{}, fmt.Errorf("index must be a non-negative integer, got '%s'", strings.TrimSpace(index))
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return insertion{}, service.ErrEmptyEntry
	}
	return insertion{index: i, line: line}, nil
}
