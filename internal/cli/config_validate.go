package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (file, environment and --config overlay).

This includes:
- backend.base_url is an absolute http(s) URL
- backend.page_size is between 1 and 1000
- server.source is pokeapi or fixture, with a fixture path for the latter
- numeric server settings are positive`,
		Example: `  # Validate current configuration
  pokedeck config validate

  # Validate and show detailed information
  pokedeck config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints the settings that matter for each command.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Printf("\nConfiguration file: %s\n", cfg.ConfigPath())

	cmd.Printf("\nClient:\n")
	cmd.Printf("  Catalog:   %s%s\n", cfg.Backend.BaseURL, catalog.ListPath)
	cmd.Printf("  Page size: %d\n", cfg.Backend.PageSize)
	cmd.Printf("  Timeout:   %s\n", cfg.Backend.Timeout)

	cmd.Printf("\nServer:\n")
	cmd.Printf("  Listen:    %s\n", cfg.Server.Addr)
	cmd.Printf("  Source:    %s\n", cfg.Server.Source)
	if cfg.Server.Source == config.SourceFixture {
		cmd.Printf("  Fixture:   %s\n", cfg.Server.Fixture)
	} else {
		cmd.Printf("  Upstream:  %s (%d ids)\n", cfg.Server.UpstreamURL, cfg.Server.Total)
	}
	cmd.Printf("  Refresh:   %s\n", cfg.Server.Refresh)
	if cfg.Server.Cache.Enabled {
		cmd.Printf("  Cache:     %s (ttl %ds)\n", cfg.CacheDirectory(), cfg.Server.Cache.TTLSeconds)
	} else {
		cmd.Printf("  Cache:     disabled\n")
	}

	cmd.Printf("\nLogging:\n")
	cmd.Printf("  Level:     %s\n", cfg.Logging.Level)
	cmd.Printf("  Format:    %s\n", cfg.Logging.Format)
	if cfg.Logging.File != "" {
		cmd.Printf("  File:      %s\n", cfg.Logging.File)
	}
}
