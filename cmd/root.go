package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/shelf/internal/cache"
	"github.com/lepinkainen/shelf/internal/config"
)

// stdout is where commands print their results.
var stdout io.Writer = os.Stdout

// CLI represents the complete command structure for the shelf application
type CLI struct {
	// Global flags; empty values keep what config.yaml or the environment set
	CatalogURL   string `help:"Base URL of the Gutendex catalog" placeholder:"URL"`
	StoreBackend string `help:"Preference store backend: sqlite or redis"`
	StoreDB      string `help:"Path to the preference SQLite database"`
	RedisAddr    string `help:"Redis address for the redis store backend" placeholder:"HOST:PORT"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 30m, 6h)"`
	NoCache     bool   `help:"Disable the response cache"`

	Browse   BrowseCmd   `cmd:"" default:"1" help:"Browse the catalog interactively"`
	Search   SearchCmd   `cmd:"" help:"Print one page of search results"`
	Show     ShowCmd     `cmd:"" help:"Show details for one book"`
	Like     LikeCmd     `cmd:"" help:"Add or remove a book from the wishlist"`
	Wishlist WishlistCmd `cmd:"" help:"List or export the wishlist"`
	Prefs    PrefsCmd    `cmd:"" help:"Show or reset saved search preferences"`
	Cover    CoverCmd    `cmd:"" help:"Download a book cover"`
	Genres   GenresCmd   `cmd:"" help:"List the genre shortcuts"`
	Cache    CacheCmd    `cmd:"" help:"Manage the response cache"`
}

// CacheCmd groups the cache maintenance subcommands
type CacheCmd struct {
	Clear cache.ClearCacheCmd `cmd:"" help:"Clear cached catalog responses"`
	Prune cache.PruneCacheCmd `cmd:"" help:"Remove cached responses older than the cache TTL"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("shelf"),
		kong.Description("Browse the Project Gutenberg catalog from the terminal."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)
	defer func() { _ = cache.ResetGlobal() }()

	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		_ = cache.ResetGlobal()
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	viper.SetEnvPrefix("shelf")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.BindEnv("catalog.baseurl", "SHELF_CATALOG_URL"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("store.redis.addr", "SHELF_REDIS_ADDR"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetCatalogURL(cli.CatalogURL)

	if cli.StoreBackend != "" {
		config.StoreBackend = cli.StoreBackend
		viper.Set("store.backend", cli.StoreBackend)
	}
	if cli.StoreDB != "" {
		viper.Set("store.dbfile", cli.StoreDB)
	}
	if cli.RedisAddr != "" {
		viper.Set("store.redis.addr", cli.RedisAddr)
	}

	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
	if cli.NoCache {
		config.SetCacheEnabled(false)
	}
}

func initLogging() {
	setLogOutput(os.Stdout)
}

// setLogOutput installs the human-readable handler writing to w, at the
// level named by SHELF_LOG_LEVEL.
func setLogOutput(w io.Writer) {
	handler := humanlog.NewHandler(w, &humanlog.Options{
		Level: logLevel(os.Getenv("SHELF_LOG_LEVEL")),
	})
	slog.SetDefault(slog.New(handler))
}

func logLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
