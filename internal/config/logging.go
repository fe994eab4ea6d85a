package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/pokedeck/internal/logging"
)

// ToLoggingConfig converts the YAML logging section to a logging.Config.
// A configured File selects file output; otherwise logs go to stderr.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the global Logging section.
// Flag overrides (for example --debug) are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}

// EnsureLogDir creates the parent directory of the configured log file.
func EnsureLogDir(lc LoggingConfig) error {
	if lc.File == "" {
		return nil
	}
	logDir := filepath.Dir(lc.File)
	if err := os.MkdirAll(logDir, 0700); err != nil {
		return fmt.Errorf("failed to create log directory %q: %w", logDir, err)
	}
	return nil
}
