package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/JustNello/punctual/internal/entry"
	"github.com/JustNello/punctual/internal/geo"
	"github.com/JustNello/punctual/internal/osutil"
	"github.com/JustNello/punctual/internal/resolver"
)

const (
	// AppName is the application name used for config directory
	AppName = "punctual"
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
)

// OutputFormats lists the accepted values of default_output_format
var OutputFormats = []string{"table", "text", "json", "csv"}

// envPattern matches "${NAME}" references in string values
var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Config represents the application configuration
type Config struct {
	// ContingencyMinutes is added to every resolved duration
	ContingencyMinutes int `toml:"contingency_minutes"`
	// CommentMarker, TripSeparator and DetailSeparator define the entry line grammar
	CommentMarker   string `toml:"comment_marker"`
	TripSeparator   string `toml:"trip_separator"`
	DetailSeparator string `toml:"detail_separator"`
	// Online enables the trip resolver (Mapbox)
	Online bool `toml:"online"`
	// AI enables the duration estimate resolver (OpenAI)
	AI bool `toml:"ai"`
	// Resolvers is the resolver priority, first match wins
	Resolvers []string `toml:"resolvers"`
	// DefaultOutputFormat is one of table, text, json, csv
	DefaultOutputFormat string `toml:"default_output_format"`
	// SynonymsFile is loaded when no --synonyms flag is given
	SynonymsFile string `toml:"synonyms_file"`
	// Theme is the bubbletint theme used by the TUI
	Theme  string       `toml:"theme"`
	Mapbox MapboxConfig `toml:"mapbox"`
	OpenAI OpenAIConfig `toml:"openai"`
}

// MapboxConfig configures the geocoding and directions client
type MapboxConfig struct {
	Token             string  `toml:"token"`
	BaseURL           string  `toml:"base_url"`
	Profile           string  `toml:"profile"`
	Timeout           string  `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// OpenAIConfig configures the duration estimator
type OpenAIConfig struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	MaxRetries int    `toml:"max_retries"`
	Timeout    string `toml:"timeout"`
}

// DefaultConfig returns a Config that works without any file:
// offline resolution, 2 minutes contingency and table output.
func DefaultConfig() Config {
	syntax := entry.DefaultSyntax()
	return Config{
		ContingencyMinutes:  int(resolver.DefaultContingency / time.Minute),
		CommentMarker:       syntax.CommentMarker,
		TripSeparator:       syntax.TripSeparator,
		DetailSeparator:     syntax.DetailSeparator,
		Resolvers:           append([]string(nil), resolver.Sources...),
		DefaultOutputFormat: "table",
		Theme:               "dracula",
		Mapbox: MapboxConfig{
			BaseURL:           "https://api.mapbox.com",
			Profile:           string(geo.ProfileTraffic),
			Timeout:           "10s",
			RequestsPerSecond: 5,
		},
		OpenAI: OpenAIConfig{
			BaseURL:    "https://api.openai.com/v1",
			Model:      "gpt-4o",
			MaxRetries: 3,
			Timeout:    "30s",
		},
	}
}

// Syntax returns the entry line grammar
func (c Config) Syntax() entry.Syntax {
	return entry.Syntax{
		CommentMarker:   c.CommentMarker,
		TripSeparator:   c.TripSeparator,
		DetailSeparator: c.DetailSeparator,
	}
}

// Contingency returns the contingency as a duration
func (c Config) Contingency() time.Duration {
	return time.Duration(c.ContingencyMinutes) * time.Minute
}

// Load reads the config file at path over the defaults, expands ${NAME}
// references and validates the result
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config file if it exists, otherwise returns defaults
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	return Load(path)
}

// Validate checks every setting and normalizes names to lower case
func (c *Config) Validate() error {
	if c.ContingencyMinutes < 0 {
		return fmt.Errorf("invalid contingency_minutes %d: must not be negative", c.ContingencyMinutes)
	}
	if c.TripSeparator == "" || c.DetailSeparator == "" {
		return errors.New("invalid separators: trip_separator and detail_separator must not be empty")
	}
	if c.TripSeparator == c.DetailSeparator {
		return fmt.Errorf("invalid separators: trip_separator and detail_separator are both %q", c.TripSeparator)
	}

	c.DefaultOutputFormat = strings.ToLower(strings.TrimSpace(c.DefaultOutputFormat))
	if c.DefaultOutputFormat == "" {
		c.DefaultOutputFormat = "table"
	}
	if !contains(OutputFormats, c.DefaultOutputFormat) {
		return fmt.Errorf("invalid default_output_format '%s': must be one of %s", c.DefaultOutputFormat, strings.Join(OutputFormats, ", "))
	}

	seen := make(map[string]bool, len(c.Resolvers))
	for i, name := range c.Resolvers {
		name = strings.ToLower(strings.TrimSpace(name))
		if !contains(resolver.Sources, name) {
			return fmt.Errorf("invalid resolver '%s': must be one of %s", name, strings.Join(resolver.Sources, ", "))
		}
		if seen[name] {
			return fmt.Errorf("invalid resolvers: '%s' listed twice", name)
		}
		seen[name] = true
		c.Resolvers[i] = name
	}

	if c.Mapbox.Profile != "" {
		profile, err := geo.ParseProfile(c.Mapbox.Profile)
		if err != nil {
			return fmt.Errorf("invalid mapbox.profile: %w", err)
		}
		c.Mapbox.Profile = string(profile)
	}
	if c.Mapbox.RequestsPerSecond < 0 {
		return errors.New("invalid mapbox.requests_per_second: must not be negative")
	}
	if c.OpenAI.MaxRetries < 0 {
		return errors.New("invalid openai.max_retries: must not be negative")
	}

	for name, value := range map[string]string{
		"mapbox.timeout": c.Mapbox.Timeout,
		"openai.timeout": c.OpenAI.Timeout,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, value, err)
		}
	}
	return nil
}

// Timeout parses a validated timeout string, returning 0 when empty
func Timeout(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}

func (c *Config) expandEnv() {
	for _, field := range []*string{
		&c.SynonymsFile,
		&c.Mapbox.Token,
		&c.Mapbox.BaseURL,
		&c.OpenAI.APIKey,
		&c.OpenAI.BaseURL,
		&c.OpenAI.Model,
	} {
		*field = ExpandEnv(*field)
	}

	if path, err := osutil.ExpandHome(c.SynonymsFile); err == nil {
		c.SynonymsFile = path
	}
}

// ExpandEnv replaces "${NAME}" references with environment values.
// Unset variables expand to the empty string.
func ExpandEnv(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(ref string) string {
		return os.Getenv(envPattern.FindStringSubmatch(ref)[1])
	})
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// GetConfigPath returns the path to the config file.
// Uses the user config directory and creates it if it doesn't exist.
func GetConfigPath() (string, error) {
	configDir, err := osutil.Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)
	if err := osutil.Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, ConfigFile), nil
}

// GenerateSampleConfig returns a commented sample config file
func GenerateSampleConfig() string {
	return `# punctual configuration file
# Every setting is optional; the values below are the defaults.

# Minutes added to every resolved duration
# contingency_minutes = 2

# Entry line grammar
# comment_marker = "#"
# trip_separator = " -> "
# detail_separator = ";"

# Resolve trips with Mapbox and unknown activities with OpenAI
# online = false
# ai = false

# Resolver priority, first match wins: trip, standard, ai
# resolvers = ["trip", "standard", "ai"]

# Output format: table, text, json, csv
# default_output_format = "table"

# Synonyms loaded when --synonyms is not given
# synonyms_file = "~/.config/punctual/synonyms.txt"

# TUI theme (any bubbletint id)
# theme = "dracula"

# [mapbox]
# token = "${MAPBOX_TOKEN}"
# profile = "driving-traffic"   # driving-traffic, driving, walking, cycling
# timeout = "10s"
# requests_per_second = 5

# [openai]
# api_key = "${OPENAI_API_KEY}"
# model = "gpt-4o"
# max_retries = 3
# timeout = "30s"
`
}
