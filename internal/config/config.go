package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/rshade/pokedeck/internal/catalog"
	"github.com/rshade/pokedeck/internal/gallery"
)

// AppName is used for XDG directory names.
const AppName = "pokedeck"

// Defaults.
const (
	DefaultServerAddr      = ":8080"
	DefaultSource          = SourcePokeAPI
	DefaultUpstreamURL     = "https://pokeapi.co/api/v2/pokemon"
	DefaultTotal           = 150
	DefaultConcurrency     = 16
	DefaultRefresh         = time.Hour
	DefaultCacheTTLSeconds = 3600
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "console"

	MaxPageSize = 1000
)

// Catalog server sources.
const (
	SourcePokeAPI = "pokeapi"
	SourceFixture = "fixture"
)

// Environment variable names.
const (
	EnvBaseURL   = "POKEDECK_BASE_URL"
	EnvPageSize  = "POKEDECK_PAGE_SIZE"
	EnvTimeout   = "POKEDECK_TIMEOUT"
	EnvLogLevel  = "POKEDECK_LOG_LEVEL"
	EnvLogFormat = "POKEDECK_LOG_FORMAT"
	EnvLogFile   = "POKEDECK_LOG_FILE"
	EnvConfig    = "POKEDECK_CONFIG"
)

// Validation errors.
var (
	ErrInvalidPageSize = fmt.Errorf("page_size must be between 1 and %d", MaxPageSize)
	ErrInvalidTimeout  = errors.New("timeout must not be negative")
	ErrInvalidSource   = fmt.Errorf("server source must be %q or %q", SourcePokeAPI, SourceFixture)
	ErrMissingFixture  = errors.New("server fixture path is required when source is fixture")
	ErrUnknownKey      = errors.New("unknown configuration key")
)

// Config is the root configuration document.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`

	configPath string
}

// BackendConfig controls the gallery client.
type BackendConfig struct {
	BaseURL  string        `yaml:"base_url"`
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ServerConfig controls the catalog server started by `pokedeck serve`.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	Source      string        `yaml:"source"`
	Fixture     string        `yaml:"fixture,omitempty"`
	UpstreamURL string        `yaml:"upstream_url"`
	Total       int           `yaml:"total"`
	Concurrency int           `yaml:"concurrency"`
	Refresh     time.Duration `yaml:"refresh"`
	Cache       CacheConfig   `yaml:"cache"`
}

// CacheConfig controls the on-disk catalog cache used by the server.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Directory  string `yaml:"directory,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// Defaults returns a configuration populated with built-in defaults only.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:  catalog.DefaultBaseURL,
			PageSize: gallery.DefaultPageSize,
			Timeout:  catalog.DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Server: ServerConfig{
			Addr:        DefaultServerAddr,
			Source:      DefaultSource,
			UpstreamURL: DefaultUpstreamURL,
			Total:       DefaultTotal,
			Concurrency: DefaultConcurrency,
			Refresh:     DefaultRefresh,
			Cache: CacheConfig{
				Enabled:    true,
				TTLSeconds: DefaultCacheTTLSeconds,
			},
		},
		configPath: DefaultConfigPath(),
	}
}

// New returns defaults overlaid with the config file (if present) and the environment.
// A missing or unreadable file is not an error here; Load reports those.
func New() *Config {
	path := ResolvePath(os.LookupEnv)
	cfg, err := Load(path)
	if err != nil {
		cfg = Defaults()
		cfg.configPath = path
	}
	cfg.ApplyEnv(os.LookupEnv)
	return cfg
}

// Load reads the YAML file at path over the defaults. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays POKEDECK_* variables. Unparseable numeric values are ignored.
func (c *Config) ApplyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvBaseURL); ok && v != "" {
		c.Backend.BaseURL = v
	}
	if v, ok := lookupEnv(EnvPageSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.PageSize = n
		}
	}
	if v, ok := lookupEnv(EnvTimeout); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.Backend.Timeout = d
		}
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		c.Logging.File = v
	}
}

// Validate checks semantic correctness.
func (c *Config) Validate() error {
	var errs []error

	if _, err := catalog.ParseBaseURL(c.Backend.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("backend.base_url: %w", err))
	}
	if c.Backend.PageSize < 1 || c.Backend.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("backend.page_size: %w: got %d", ErrInvalidPageSize, c.Backend.PageSize))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, fmt.Errorf("backend.timeout: %w", ErrInvalidTimeout))
	}

	switch c.Server.Source {
	case SourcePokeAPI:
	case SourceFixture:
		if c.Server.Fixture == "" {
			errs = append(errs, fmt.Errorf("server.fixture: %w", ErrMissingFixture))
		}
	default:
		errs = append(errs, fmt.Errorf("server.source: %w: got %q", ErrInvalidSource, c.Server.Source))
	}
	if c.Server.Total < 1 {
		errs = append(errs, fmt.Errorf("server.total must be >= 1, got %d", c.Server.Total))
	}
	if c.Server.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("server.concurrency must be >= 1, got %d", c.Server.Concurrency))
	}
	if c.Server.Cache.TTLSeconds < 0 {
		errs = append(errs, fmt.Errorf("server.cache.ttl_seconds must be >= 0, got %d", c.Server.Cache.TTLSeconds))
	}

	return errors.Join(errs...)
}

// ConfigPath returns the file this configuration is bound to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath rebinds the configuration to another file.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// keys lists every dotted key understood by Get and Set, in display order.
//
//nolint:gochecknoglobals // Static lookup table.
var keys = []string{
	"backend.base_url",
	"backend.page_size",
	"backend.timeout",
	"logging.level",
	"logging.format",
	"logging.file",
	"server.addr",
	"server.source",
	"server.fixture",
	"server.upstream_url",
	"server.total",
	"server.concurrency",
	"server.refresh",
	"server.cache.enabled",
	"server.cache.directory",
	"server.cache.ttl_seconds",
}

// Keys returns every settable key.
func Keys() []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// Get returns the string form of a dotted key.
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "backend.base_url":
		return c.Backend.BaseURL, nil
	case "backend.page_size":
		return strconv.Itoa(c.Backend.PageSize), nil
	case "backend.timeout":
		return c.Backend.Timeout.String(), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "server.addr":
		return c.Server.Addr, nil
	case "server.source":
		return c.Server.Source, nil
	case "server.fixture":
		return c.Server.Fixture, nil
	case "server.upstream_url":
		return c.Server.UpstreamURL, nil
	case "server.total":
		return strconv.Itoa(c.Server.Total), nil
	case "server.concurrency":
		return strconv.Itoa(c.Server.Concurrency), nil
	case "server.refresh":
		return c.Server.Refresh.String(), nil
	case "server.cache.enabled":
		return strconv.FormatBool(c.Server.Cache.Enabled), nil
	case "server.cache.directory":
		return c.Server.Cache.Directory, nil
	case "server.cache.ttl_seconds":
		return strconv.Itoa(c.Server.Cache.TTLSeconds), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value into the field named by a dotted key.
//
//nolint:gocyclo // One case per key.
func (c *Config) Set(key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "backend.base_url":
		c.Backend.BaseURL = value
	case "backend.page_size":
		c.Backend.PageSize, err = strconv.Atoi(value)
	case "backend.timeout":
		c.Backend.Timeout, err = time.ParseDuration(value)
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "server.addr":
		c.Server.Addr = value
	case "server.source":
		c.Server.Source = value
	case "server.fixture":
		c.Server.Fixture = value
	case "server.upstream_url":
		c.Server.UpstreamURL = value
	case "server.total":
		c.Server.Total, err = strconv.Atoi(value)
	case "server.concurrency":
		c.Server.Concurrency, err = strconv.Atoi(value)
	case "server.refresh":
		c.Server.Refresh, err = time.ParseDuration(value)
	case "server.cache.enabled":
		c.Server.Cache.Enabled, err = strconv.ParseBool(value)
	case "server.cache.directory":
		c.Server.Cache.Directory = value
	case "server.cache.ttl_seconds":
		c.Server.Cache.TTLSeconds, err = strconv.Atoi(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	return nil
}

// ResolvePath returns the config file named by POKEDECK_CONFIG, or the default path.
func ResolvePath(lookupEnv func(string) (string, bool)) string {
	if env, ok := lookupEnv(EnvConfig); ok && env != "" {
		return env
	}
	return DefaultConfigPath()
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/pokedeck/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultLogFile returns $XDG_STATE_HOME/pokedeck/pokedeck.log.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, AppName+".log")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/pokedeck.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// CacheDirectory returns the configured cache directory or the XDG default.
func (c *Config) CacheDirectory() string {
	if c.Server.Cache.Directory != "" {
		return c.Server.Cache.Directory
	}
	return DefaultCacheDir()
}
