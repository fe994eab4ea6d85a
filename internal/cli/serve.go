package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pokedeck/internal/config"
	"github.com/rshade/pokedeck/internal/logging"
	"github.com/rshade/pokedeck/internal/server"
	"github.com/rshade/pokedeck/internal/server/cache"
	"github.com/rshade/pokedeck/internal/server/source"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 10 * time.Second

// serveFlags are the command-line overrides for the server section.
type serveFlags struct {
	addr     string
	source   string
	fixture  string
	upstream string
	total    int
	refresh  time.Duration
	cacheTTL string
	noCache  bool
}

// NewServeCmd creates the serve command, which hosts the catalog backend.
func NewServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog server the gallery reads from",
		Long: `Serves the catalog over HTTP:

  GET /api/pokemons?page={n}&size={m}   one page, an empty array past the end
  GET /api/pokemons/{id}                one record, 404 when absent
  GET /health                           liveness and catalog size

With --source pokeapi (default) records 1..--total are loaded from PokeAPI in
parallel; ids that fail are skipped, and if every id fails a small placeholder
catalog is served. With --source fixture the records are read from a YAML or
JSON file. The assembled catalog is cached on disk and rebuilt every --refresh.`,
		Example: `  # Serve the first 150 Pokémon from PokeAPI on :8080
  pokedeck serve

  # Serve a fixture file on another port
  pokedeck serve --addr :9090 --source fixture --fixture testdata/catalog.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", config.DefaultServerAddr, "listen address")
	cmd.Flags().StringVar(&flags.source, "source", config.DefaultSource, "record source: pokeapi or fixture")
	cmd.Flags().StringVar(&flags.fixture, "fixture", "", "fixture file for --source fixture")
	cmd.Flags().StringVar(&flags.upstream, "upstream", config.DefaultUpstreamURL, "PokeAPI pokemon endpoint")
	cmd.Flags().IntVar(&flags.total, "total", config.DefaultTotal, "number of ids to load from PokeAPI")
	cmd.Flags().DurationVar(&flags.refresh, "refresh", config.DefaultRefresh, "catalog rebuild interval (0 disables)")
	cmd.Flags().StringVar(&flags.cacheTTL, "cache-ttl", "", `catalog cache lifetime, seconds or a duration such as "90m"`)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "skip the on-disk catalog cache")

	return cmd
}

// resolve applies explicitly set flags over the global server configuration.
func (f *serveFlags) resolve(cmd *cobra.Command) (config.ServerConfig, error) {
	cfg := config.GetGlobalConfig().Server

	if cmd.Flags().Changed("addr") {
		cfg.Addr = f.addr
	}
	if cmd.Flags().Changed("source") {
		cfg.Source = f.source
	}
	if cmd.Flags().Changed("fixture") {
		cfg.Fixture = f.fixture
		if !cmd.Flags().Changed("source") {
			cfg.Source = config.SourceFixture
		}
	}
	if cmd.Flags().Changed("upstream") {
		cfg.UpstreamURL = f.upstream
	}
	if cmd.Flags().Changed("total") {
		cfg.Total = f.total
	}
	if cmd.Flags().Changed("refresh") {
		cfg.Refresh = f.refresh
	}
	if f.cacheTTL != "" {
		ttl, err := cache.ParseTTL(f.cacheTTL)
		if err != nil {
			return cfg, err
		}
		cfg.Cache.TTLSeconds = ttl
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}

	check := config.Defaults()
	check.Server = cfg
	if err := check.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newSource builds the record source named by cfg.Source.
func newSource(cfg config.ServerConfig) (source.Source, error) {
	switch cfg.Source {
	case config.SourceFixture:
		return source.NewFixture(cfg.Fixture), nil
	case config.SourcePokeAPI:
		return source.NewPokeAPI(cfg.UpstreamURL, cfg.Total, cfg.Concurrency), nil
	default:
		return nil, fmt.Errorf("%w: got %q", config.ErrInvalidSource, cfg.Source)
	}
}

// openSnapshots opens the catalog cache and drops expired snapshots.
// It returns nil when caching is disabled or the directory is unusable.
func openSnapshots(ctx context.Context, cc config.CacheConfig) *cache.Dir {
	if !cc.Enabled {
		return nil
	}
	log := zerolog.Ctx(ctx)

	dir := cc.Directory
	if dir == "" {
		dir = config.DefaultCacheDir()
	}
	snapshots, err := cache.Open(dir, time.Duration(cc.TTLSeconds)*time.Second)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("catalog cache unavailable")
		return nil
	}
	if removed, pruneErr := snapshots.Prune(); pruneErr != nil {
		log.Debug().Err(pruneErr).Msg("catalog cache prune failed")
	} else if removed > 0 {
		log.Debug().Int("removed", removed).Msg("pruned expired catalog snapshots")
	}
	return snapshots
}

func runServe(cmd *cobra.Command, cfg config.ServerConfig) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zerolog.Ctx(ctx)

	src, err := newSource(cfg)
	if err != nil {
		return err
	}

	snapshots := openSnapshots(ctx, cfg.Cache)
	store := server.NewStore(src, snapshots)
	if err = store.Warm(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	go store.RunRefresher(ctx, cfg.Refresh)

	handler := server.New(store, logging.ComponentLogger(*log, "server"))
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second, //nolint:mnd // Header read timeout.
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Info().Str("addr", cfg.Addr).Int("records", store.Len()).Strs("source", src.Describe()).Msg("catalog server listening")
	cmd.Printf("Serving %d records on %s\n", store.Len(), cfg.Addr)

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("catalog server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down catalog server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down catalog server: %w", err)
	}
	return nil
}
