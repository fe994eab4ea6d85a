package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pokedeck/internal/config"
	"github.com/rshade/pokedeck/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the pokedeck CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.Args, os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with explicit args and env lookup for testability.
func NewRootCmdWithArgs(
	ver string,
	_ []string,
	lookupEnv func(string) (string, bool),
) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "pokedeck",
		Short:         "Browse a paginated Pokémon catalog from the terminal",
		Long:          "pokedeck: an infinite-scroll Pokémon gallery for the terminal, plus the catalog server it talks to",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, lookupEnv); err != nil {
				return err
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().String("config", "", "overlay configuration file (YAML)")
	cmd.AddCommand(NewBrowseCmd(), NewListCmd(), NewServeCmd(), newConfigCmd())

	return cmd
}

// loadConfig builds the global configuration: defaults, config file, environment,
// then the --config overlay.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) error {
	cfg, err := config.Load(config.ResolvePath(lookupEnv))
	if err != nil {
		return err
	}
	cfg.ApplyEnv(lookupEnv)

	if overlay, _ := cmd.Flags().GetString("config"); overlay != "" {
		if err = config.ShallowMergeYAML(cfg, overlay); err != nil {
			return fmt.Errorf("loading --config: %w", err)
		}
	}

	config.SetGlobalConfig(cfg)
	return nil
}

const rootCmdExample = `  # Start a local catalog server backed by PokeAPI
  pokedeck serve

  # Serve a fixed catalog from a file instead
  pokedeck serve --source fixture --fixture testdata/catalog.yaml

  # Browse the gallery (interactive in a terminal)
  pokedeck browse

  # Print every record as JSON
  pokedeck list --output json

  # Point the client at another server
  pokedeck config set backend.base_url http://catalog.internal:8080`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
