// Package config loads the mdblock configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
)

// DefaultMetricsAddress is where the metrics endpoint listens when enabled
// without an explicit address.
const DefaultMetricsAddress = ":9464"

// Config is the root configuration.
type Config struct {
	Parser  Parser  `yaml:"parser"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Parser configures the block tokenizer.
type Parser struct {
	// MaxNesting bounds the token nesting depth.
	MaxNesting int `yaml:"max_nesting"`
	// Disable lists default rules to turn off.
	Disable []string `yaml:"disable,omitempty"`
	// EnableOnly, when set, turns off every default rule it does not list.
	EnableOnly []string `yaml:"enable_only,omitempty"`
	// Frontmatter strips a leading YAML frontmatter block before tokenizing.
	Frontmatter bool `yaml:"frontmatter"`
}

// Logging configures the slog handler of the CLI.
type Logging struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Metrics configures the Prometheus endpoint of the watch command.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Parser: Parser{
			MaxNesting:  20,
			Frontmatter: true,
		},
		Logging: Logging{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Metrics: Metrics{
			Address: DefaultMetricsAddress,
		},
	}
}

// Load reads the YAML file at path on top of Default. A missing file is not
// an error. Variables from .env.local and .env are loaded into the process
// environment first (never replacing variables already set), then ${VAR}
// references in the file are expanded and MDBLOCK_* overrides are applied.
// The result is validated.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
				WithContext("path", path).
				Fatal().
				Build()
		default:
			if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
				return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse config file").
					WithContext("path", path).
					Fatal().
					Build()
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and normalizes enum spellings in place.
func (c *Config) Validate() error {
	level, err := logLevels.Parse("logging.level", string(c.Logging.Level))
	if err != nil {
		return err
	}
	c.Logging.Level = level

	format, err := logFormats.Parse("logging.format", string(c.Logging.Format))
	if err != nil {
		return err
	}
	c.Logging.Format = format

	if c.Parser.MaxNesting < 1 {
		return ferrors.ConfigError("parser.max_nesting must be at least 1").
			WithContext("max_nesting", c.Parser.MaxNesting).
			Build()
	}
	if len(c.Parser.Disable) > 0 && len(c.Parser.EnableOnly) > 0 {
		return ferrors.ConfigError("parser.disable and parser.enable_only are mutually exclusive").Build()
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		c.Metrics.Address = DefaultMetricsAddress
	}
	return nil
}
