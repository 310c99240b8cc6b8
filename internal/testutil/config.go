package testutil

import (
	"testing"

	"github.com/lepinkainen/shelf/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	CatalogURL   string
	StoreBackend string
	CacheEnabled bool
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		CatalogURL:   config.CatalogURL,
		StoreBackend: config.StoreBackend,
		CacheEnabled: config.CacheEnabled,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.CatalogURL = state.CatalogURL
	config.StoreBackend = state.StoreBackend
	config.CacheEnabled = state.CacheEnabled
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*testConfigOptions)

type testConfigOptions struct {
	catalogURL   string
	storeBackend string
	cacheEnabled bool
	cacheDBFile  string
}

// WithCatalogURL points the catalog at a test server.
func WithCatalogURL(url string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.catalogURL = url
	}
}

// WithStoreBackend selects the preference store backend.
func WithStoreBackend(backend string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.storeBackend = backend
	}
}

// WithCacheDB enables the response cache backed by the given file.
func WithCacheDB(path string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.cacheEnabled = true
		o.cacheDBFile = path
	}
}

// SetTestConfig sets up a test configuration: defaults registered, cache
// disabled unless WithCacheDB is given. Everything is restored on cleanup.
func SetTestConfig(t *testing.T, opts ...SetTestConfigOption) {
	t.Helper()

	options := &testConfigOptions{
		catalogURL:   config.DefaultCatalogURL,
		storeBackend: config.DefaultStoreBackend,
	}
	for _, opt := range opts {
		opt(options)
	}

	ResetConfig(t)
	config.SetDefaults()

	config.CatalogURL = options.catalogURL
	config.StoreBackend = options.storeBackend
	config.CacheEnabled = options.cacheEnabled
	viper.Set("catalog.baseurl", options.catalogURL)
	viper.Set("store.backend", options.storeBackend)
	viper.Set("cache.enabled", options.cacheEnabled)
	if options.cacheDBFile != "" {
		viper.Set("cache.dbfile", options.cacheDBFile)
	}
}

// SetupTestCache points the response cache at a database inside env and
// enables it. It returns the directory holding the cache file.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "1h")
	viper.Set("cache.enabled", true)
	config.CacheEnabled = true

	return cacheDir
}
