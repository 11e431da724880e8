// Package config provides configuration loading and validation for astmove.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel     = errors.New("invalid logging level")
	ErrInvalidLogFormat    = errors.New("invalid logging format")
	ErrInvalidOutputFormat = errors.New("invalid output format")
	ErrUnknownGenerator    = errors.New("unknown move generator")
	ErrEmptyModifier       = errors.New("empty modifier keyword")
)

// Generator names accepted in moves.generators.
const (
	GeneratorAllSubTrees  = "all-subtrees"
	GeneratorDeclarations = "declarations"
)

// Config holds all configuration for astmove.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Matching MatchingConfig `mapstructure:"matching"`
	Moves    MovesConfig    `mapstructure:"moves"`
	Output   OutputConfig   `mapstructure:"output"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MatchingConfig holds matcher configuration.
type MatchingConfig struct {
	// Modifiers are the keywords the same-modifier pass tries on every
	// type declaration pair, in order.
	Modifiers []string `mapstructure:"modifiers"`
}

// MovesConfig selects the move generators run after matching.
type MovesConfig struct {
	Generators []string `mapstructure:"generators"`
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("astmove")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix("ASTMOVE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Matching: MatchingConfig{Modifiers: slices.Clone(DefaultModifiers)},
		Moves:    MovesConfig{Generators: slices.Clone(DefaultGenerators)},
		Output:   OutputConfig{Format: DefaultOutputFormat},
	}
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("matching.modifiers", DefaultModifiers)

	viperCfg.SetDefault("moves.generators", DefaultGenerators)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, config.Logging.Level) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains([]string{"text", "json"}, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if !slices.Contains([]string{"table", "yaml", "json"}, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidOutputFormat, config.Output.Format)
	}

	for _, keyword := range config.Matching.Modifiers {
		if strings.TrimSpace(keyword) == "" {
			return ErrEmptyModifier
		}
	}

	for _, name := range config.Moves.Generators {
		if name != GeneratorAllSubTrees && name != GeneratorDeclarations {
			return fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
		}
	}

	return nil
}
