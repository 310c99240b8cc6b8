package config

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults shared by the CLI flags and the viper config file.
const (
	DefaultCatalogURL     = "https://gutendex.com"
	DefaultCatalogTimeout = 15 * time.Second
	DefaultCatalogRate    = 2.0
	DefaultStoreBackend   = "sqlite"
	DefaultStoreDBFile    = "./shelf.db"
	DefaultCacheDBFile    = "./cache.db"
	DefaultCacheTTL       = time.Hour
	DefaultRedisKeyPrefix = "shelf:"
)

// Global configuration variables
var (
	// CatalogURL is the base URL of the Gutendex instance
	CatalogURL string
	// StoreBackend selects the preference store: "sqlite" or "redis"
	StoreBackend string
	// CacheEnabled controls the SQLite response cache for catalog requests
	CacheEnabled bool
)

// SetDefaults registers default values for every key read by shelf.
func SetDefaults() {
	viper.SetDefault("catalog.baseurl", DefaultCatalogURL)
	viper.SetDefault("catalog.timeout", DefaultCatalogTimeout.String())
	viper.SetDefault("catalog.rate", DefaultCatalogRate)

	viper.SetDefault("store.backend", DefaultStoreBackend)
	viper.SetDefault("store.dbfile", DefaultStoreDBFile)
	viper.SetDefault("store.redis.addr", "localhost:6379")
	viper.SetDefault("store.redis.db", 0)
	viper.SetDefault("store.redis.prefix", DefaultRedisKeyPrefix)

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", DefaultCacheDBFile)
	viper.SetDefault("cache.ttl", DefaultCacheTTL.String())
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	CatalogURL = viper.GetString("catalog.baseurl")
	StoreBackend = viper.GetString("store.backend")
	CacheEnabled = viper.GetBool("cache.enabled")
}

// SetCatalogURL overrides the catalog base URL
func SetCatalogURL(url string) {
	if url != "" {
		CatalogURL = url
		viper.Set("catalog.baseurl", url)
	}
}

// SetCacheEnabled toggles the response cache
func SetCacheEnabled(enabled bool) {
	CacheEnabled = enabled
	viper.Set("cache.enabled", enabled)
}

// CatalogTimeout returns the HTTP timeout for catalog requests.
func CatalogTimeout() time.Duration {
	return durationOr("catalog.timeout", DefaultCatalogTimeout)
}

// CatalogRate returns the allowed catalog requests per second; zero disables limiting.
func CatalogRate() float64 {
	if !viper.IsSet("catalog.rate") {
		return DefaultCatalogRate
	}
	return viper.GetFloat64("catalog.rate")
}

// CacheTTL returns how long cached catalog responses stay fresh.
func CacheTTL() time.Duration {
	return durationOr("cache.ttl", DefaultCacheTTL)
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
