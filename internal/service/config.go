// Package service provides the business logic layer for punctual.
// It wraps config, synonyms and the resolver chain, providing one API
// for both the CLI and the TUI.
package service

import (
	"fmt"
	"os"

	"github.com/JustNello/punctual/internal/config"
)

// ConfigService provides operations for managing configuration
type ConfigService struct {
	configPath string
	config     config.Config
}

// Overrides holds command line values that take precedence over the config file.
// Nil pointers and empty strings leave the configured value untouched.
type Overrides struct {
	Online       *bool
	AI           *bool
	Contingency  *int
	Format       string
	SynonymsFile string
}

// NewConfigService creates a new ConfigService
func NewConfigService(configPath string, cfg config.Config) *ConfigService {
	return &ConfigService{
		configPath: configPath,
		config:     cfg,
	}
}

// LoadConfigService loads the config file at the default location
func LoadConfigService() (*ConfigService, error) {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	return NewConfigService(configPath, cfg), nil
}

// Get returns the current configuration
func (s *ConfigService) Get() config.Config {
	return s.config
}

// GetPath returns the path to the config file
func (s *ConfigService) GetPath() string {
	return s.configPath
}

// Exists checks if the config file exists
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Effective returns the configuration with o applied on top, validated
func (s *ConfigService) Effective(o Overrides) (config.Config, error) {
	cfg := s.config
	cfg.Resolvers = append([]string(nil), s.config.Resolvers...)

	if o.Online != nil {
		cfg.Online = *o.Online
	}
	if o.AI != nil {
		cfg.AI = *o.AI
	}
	if o.Contingency != nil {
		cfg.ContingencyMinutes = *o.Contingency
	}
	if o.Format != "" {
		cfg.DefaultOutputFormat = o.Format
	}
	if o.SynonymsFile != "" {
		cfg.SynonymsFile = o.SynonymsFile
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Init creates a sample config file
func (s *ConfigService) Init() error {
	if s.Exists() {
		return fmt.Errorf("config file already exists at %s", s.configPath)
	}

	sample := config.GenerateSampleConfig()
	if err := os.WriteFile(s.configPath, []byte(sample), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reload reloads the configuration from disk
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.config = cfg
	return nil
}
