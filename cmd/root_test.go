package cmd

import (
	"log/slog"
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/testutil"
)

func resetCmdState(t *testing.T) {
	t.Helper()

	testutil.ResetConfig(t)
	t.Setenv("SHELF_CATALOG_URL", "")
	t.Setenv("SHELF_REDIS_ADDR", "")
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"shelf"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("shelf"),
		kong.Description("Browse the Project Gutenberg catalog from the terminal."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)
	config.SetDefaults()
	config.InitConfig()

	cli := &CLI{
		CatalogURL:   "http://gutendex.local",
		StoreBackend: "redis",
		StoreDB:      "/tmp/shelf.db",
		RedisAddr:    "redis:6380",
		CacheDBFile:  "/tmp/cache.db",
		CacheTTL:     "12h",
		NoCache:      true,
	}

	updateGlobalConfig(cli)

	assert.Equal(t, "http://gutendex.local", config.CatalogURL)
	assert.Equal(t, "http://gutendex.local", viper.GetString("catalog.baseurl"))
	assert.Equal(t, "redis", config.StoreBackend)
	assert.Equal(t, "/tmp/shelf.db", viper.GetString("store.dbfile"))
	assert.Equal(t, "redis:6380", viper.GetString("store.redis.addr"))
	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "12h", viper.GetString("cache.ttl"))
	assert.False(t, config.CacheEnabled)
}

func TestUpdateGlobalConfigKeepsConfiguredValues(t *testing.T) {
	resetCmdState(t)
	config.SetDefaults()
	viper.Set("store.dbfile", "/data/from-config.db")
	config.InitConfig()

	updateGlobalConfig(&CLI{})

	assert.Equal(t, config.DefaultCatalogURL, config.CatalogURL)
	assert.Equal(t, "sqlite", config.StoreBackend)
	assert.Equal(t, "/data/from-config.db", viper.GetString("store.dbfile"))
	assert.True(t, config.CacheEnabled)
}

func TestSearchCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "search", "--term", "melville", "--genre", "", "-p", "3")

	assert.Equal(t, "search", ctx.Command())
	assert.Equal(t, optionalString{Value: "melville", Set: true}, cli.Search.Term)
	assert.Equal(t, optionalString{Value: "", Set: true}, cli.Search.Genre)
	assert.Equal(t, 3, cli.Search.Page)
}

func TestSearchCommandDefaults(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search")

	assert.False(t, cli.Search.Term.Set)
	assert.False(t, cli.Search.Genre.Set)
	assert.Equal(t, 1, cli.Search.Page)
	assert.Equal(t, "fallback", cli.Search.Term.or("fallback"))
}

func TestCommandParsing(t *testing.T) {
	resetCmdState(t)

	tests := []struct {
		name    string
		args    []string
		command string
	}{
		{"default is browse", nil, "browse"},
		{"show", []string{"show", "84"}, "show <id>"},
		{"like", []string{"like", "84"}, "like <id>"},
		{"wishlist", []string{"wishlist", "-f", "yaml"}, "wishlist"},
		{"prefs default", []string{"prefs"}, "prefs show"},
		{"prefs reset", []string{"prefs", "reset"}, "prefs reset"},
		{"cover", []string{"cover", "84", "--max-width", "200"}, "cover <id>"},
		{"genres", []string{"genres"}, "genres"},
		{"cache clear", []string{"cache", "clear", "search"}, "cache clear <source>"},
		{"cache prune", []string{"cache", "prune"}, "cache prune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := parseCLI(t, tt.args...)
			assert.Equal(t, tt.command, ctx.Command())
		})
	}
}

func TestCLIGlobalFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "--catalog-url", "http://x", "--store-backend", "redis", "--no-cache", "--cache-ttl", "5m", "genres")

	assert.Equal(t, "http://x", cli.CatalogURL)
	assert.Equal(t, "redis", cli.StoreBackend)
	assert.True(t, cli.NoCache)
	assert.Equal(t, "5m", cli.CacheTTL)
	assert.Equal(t, "text", cli.Wishlist.Format)
	assert.Equal(t, 400, cli.Cover.MaxWidth)
	assert.Equal(t, "covers", cli.Cover.Dir)
}

func TestInitConfigWritesDefaultFile(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	env.Chdir(".")

	initConfig()

	env.RequireFileExists("config.yaml")
	env.AssertFileContains("config.yaml", "gutendex.com")
	assert.Equal(t, config.DefaultCatalogURL, config.CatalogURL)
	assert.Equal(t, config.DefaultCacheTTL, config.CacheTTL())
}

func TestInitConfigReadsFileAndEnv(t *testing.T) {
	resetCmdState(t)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("config.yaml", "catalog:\n  baseurl: http://from-file\nstore:\n  backend: redis\ncache:\n  ttl: 10m\n")
	env.Chdir(".")
	t.Setenv("SHELF_REDIS_ADDR", "cache-host:6379")

	initConfig()

	assert.Equal(t, "http://from-file", config.CatalogURL)
	assert.Equal(t, "redis", config.StoreBackend)
	assert.Equal(t, "cache-host:6379", viper.GetString("store.redis.addr"))
	assert.Equal(t, "10m0s", config.CacheTTL().String())

	viper.Reset()
	t.Setenv("SHELF_CATALOG_URL", "http://from-env")
	initConfig()
	assert.Equal(t, "http://from-env", config.CatalogURL)
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"invalid": slog.LevelInfo,
	}

	for name, want := range tests {
		assert.Equal(t, want, logLevel(name), "level %q", name)
	}
}

func TestInitLogging(t *testing.T) {
	t.Setenv("SHELF_LOG_LEVEL", "debug")
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })

	require.NotPanics(t, initLogging)
}
