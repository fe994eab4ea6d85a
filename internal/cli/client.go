package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/config"
	"github.com/rshade/pokedeck/internal/gallery"
	"github.com/rshade/pokedeck/internal/logging"
)

// clientFlags are the backend overrides shared by browse and list.
type clientFlags struct {
	baseURL  string
	pageSize int
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "catalog server URL (overrides backend.base_url)")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0, "records per page (overrides backend.page_size)")
}

// resolve applies explicitly set flags over the global backend configuration.
func (f *clientFlags) resolve(cmd *cobra.Command) (config.BackendConfig, error) {
	cfg := config.GetGlobalConfig().Backend

	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if cmd.Flags().Changed("page-size") {
		cfg.PageSize = f.pageSize
	}

	if cfg.PageSize < 1 || cfg.PageSize > config.MaxPageSize {
		return cfg, fmt.Errorf("%w: got %d", config.ErrInvalidPageSize, cfg.PageSize)
	}
	return cfg, nil
}

// newController builds a gallery controller for the configured backend.
func newController(cmd *cobra.Command, backend config.BackendConfig) (*gallery.Controller, error) {
	client, err := catalog.NewClient(backend.BaseURL, catalog.WithTimeout(backend.Timeout))
	if err != nil {
		return nil, err
	}

	return gallery.NewController(client,
		gallery.WithPageSize(backend.PageSize),
		gallery.WithLogger(logging.ComponentLogger(*zerolog.Ctx(cmd.Context()), "gallery")),
		gallery.WithBackendName("the catalog server at "+client.BaseURL()),
	), nil
}
