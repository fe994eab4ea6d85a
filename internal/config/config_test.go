package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pokedeck/internal/logging"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 20, cfg.Backend.PageSize)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, SourcePokeAPI, cfg.Server.Source)
	assert.Equal(t, 150, cfg.Server.Total)
	assert.True(t, cfg.Server.Cache.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Defaults().Backend, cfg.Backend)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
backend:
  base_url: http://catalog.local:9000
  timeout: 3s
server:
  source: fixture
  fixture: /data/mons.yaml
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://catalog.local:9000", cfg.Backend.BaseURL)
		assert.Equal(t, 20, cfg.Backend.PageSize, "unset fields keep defaults")
		assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, SourceFixture, cfg.Server.Source)
		assert.Equal(t, path, cfg.ConfigPath())
		require.NoError(t, cfg.Validate())
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend: [unclosed"), 0600))

		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	cfg := Defaults()
	cfg.ApplyEnv(envMap(map[string]string{
		EnvBaseURL:   "http://env:1234",
		EnvPageSize:  "50",
		EnvTimeout:   "bogus",
		EnvLogLevel:  "debug",
		EnvLogFormat: "json",
	}))

	assert.Equal(t, "http://env:1234", cfg.Backend.BaseURL)
	assert.Equal(t, 50, cfg.Backend.PageSize)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout, "unparseable values are ignored")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{name: "bad url", mutate: func(c *Config) { c.Backend.BaseURL = "nope" }, errSub: "backend.base_url"},
		{name: "zero page size", mutate: func(c *Config) { c.Backend.PageSize = 0 }, errSub: "backend.page_size"},
		{name: "huge page size", mutate: func(c *Config) { c.Backend.PageSize = 5000 }, errSub: "backend.page_size"},
		{name: "negative timeout", mutate: func(c *Config) { c.Backend.Timeout = -time.Second }, errSub: "backend.timeout"},
		{name: "unknown source", mutate: func(c *Config) { c.Server.Source = "ftp" }, errSub: "server.source"},
		{name: "fixture without path", mutate: func(c *Config) { c.Server.Source = SourceFixture }, errSub: "server.fixture"},
		{name: "zero total", mutate: func(c *Config) { c.Server.Total = 0 }, errSub: "server.total"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := Defaults()

	for _, key := range Keys() {
		_, err := cfg.Get(key)
		require.NoError(t, err, key)
	}

	require.NoError(t, cfg.Set("backend.page_size", "40"))
	require.NoError(t, cfg.Set("server.refresh", "30m"))
	require.NoError(t, cfg.Set("server.cache.enabled", "false"))

	v, err := cfg.Get("backend.page_size")
	require.NoError(t, err)
	assert.Equal(t, "40", v)
	v, err = cfg.Get("server.refresh")
	require.NoError(t, err)
	assert.Equal(t, "30m0s", v)
	assert.False(t, cfg.Server.Cache.Enabled)

	err = cfg.Set("backend.page_size", "many")
	require.Error(t, err)

	_, err = cfg.Get("backend.colour")
	require.ErrorIs(t, err, ErrUnknownKey)
	require.ErrorIs(t, cfg.Set("nope", "x"), ErrUnknownKey)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.SetConfigPath(path)
	cfg.Backend.PageSize = 33
	cfg.Server.Refresh = 15 * time.Minute

	require.NoError(t, cfg.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 33, loaded.Backend.PageSize)
	assert.Equal(t, 15*time.Minute, loaded.Server.Refresh)
}

func TestShallowMergeYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	content := `
backend:
  page_size: 5
logging:
  level: warn
unknown_section:
  foo: bar
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := Defaults()
	require.NoError(t, ShallowMergeYAML(cfg, path))

	assert.Equal(t, 5, cfg.Backend.PageSize)
	assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)

	require.Error(t, ShallowMergeYAML(nil, path))
	require.Error(t, ShallowMergeYAML(cfg, filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestToLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json"}
	assert.Equal(t, logging.OutputStderr, lc.ToLoggingConfig().Output)

	lc.File = "/tmp/pokedeck.log"
	out := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, out.Output)
	assert.Equal(t, "/tmp/pokedeck.log", out.File)
}

func TestGlobalConfig(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv(EnvPageSize, "7")
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, 7, cfg.Backend.PageSize)
	assert.Same(t, cfg, GetGlobalConfig())
	assert.Equal(t, 7, GetGlobalConfig().Backend.PageSize)
}

func TestEnsureLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureLogDir(LoggingConfig{File: filepath.Join(dir, "x.log")}))
	assert.DirExists(t, dir)
	require.NoError(t, EnsureLogDir(LoggingConfig{}))
}
