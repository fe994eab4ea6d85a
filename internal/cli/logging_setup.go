package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedeck/internal/config"
	"github.com/rshade/pokedeck/internal/logging"
	"github.com/rshade/pokedeck/internal/tui"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
// The interactive gallery owns the terminal, so it logs to a file unless --debug is set.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	switch {
	case debug:
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	case cmd.Name() == "browse" && loggingCfg.File == "" && tui.IsTTY():
		loggingCfg.File = config.DefaultLogFile()
	}

	// Ensure log directory exists after all overrides have been applied.
	if err := config.EnsureLogDir(loggingCfg); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && cmd.Name() != "browse" {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.With().Str(logging.TraceIDField, traceID).Logger().WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Str(logging.TraceIDField, traceID).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(_ *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
