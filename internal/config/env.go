package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/mdblock/internal/foundation/errors"
)

// Environment overrides, applied after the config file.
const (
	EnvLogLevel    = "MDBLOCK_LOG_LEVEL"
	EnvLogFormat   = "MDBLOCK_LOG_FORMAT"
	EnvMaxNesting  = "MDBLOCK_MAX_NESTING"
	EnvMetricsAddr = "MDBLOCK_METRICS_ADDR"
)

// envFiles are loaded in order; godotenv never replaces a variable that is
// already set, so earlier files win.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() []string {
	var loaded []string
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}

func applyEnv(c *Config) error {
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Logging.Level = LogLevel(v)
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok {
		c.Logging.Format = LogFormat(v)
	}
	if v, ok := os.LookupEnv(EnvMaxNesting); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid environment override").
				WithContext("variable", EnvMaxNesting).
				WithContext("value", v).
				Build()
		}
		c.Parser.MaxNesting = n
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok && v != "" {
		c.Metrics.Address = v
		c.Metrics.Enabled = true
	}
	return nil
}
