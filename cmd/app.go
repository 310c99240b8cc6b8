package cmd

import (
	"context"
	"errors"

	"github.com/spf13/viper"

	"github.com/lepinkainen/shelf/internal/browse"
	"github.com/lepinkainen/shelf/internal/catalog"
	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/prefs"
	"github.com/lepinkainen/shelf/internal/ratelimit"
	"github.com/lepinkainen/shelf/internal/store"
)

var openStore = store.Open

// app bundles the components a command works with.
type app struct {
	kv       store.Store
	catalog  *catalog.Client
	prefs    *prefs.Store
	wishlist *prefs.Wishlist
	session  *browse.Session
}

func storeOptions() store.Options {
	return store.Options{
		Backend:       config.StoreBackend,
		DBFile:        viper.GetString("store.dbfile"),
		RedisAddr:     viper.GetString("store.redis.addr"),
		RedisPassword: viper.GetString("store.redis.password"),
		RedisDB:       viper.GetInt("store.redis.db"),
		KeyPrefix:     viper.GetString("store.redis.prefix"),
	}
}

func newCatalogClient() *catalog.Client {
	return catalog.NewClient(
		catalog.WithBaseURL(config.CatalogURL),
		catalog.WithTimeout(config.CatalogTimeout()),
		catalog.WithRateLimiter(ratelimit.New("gutendex", config.CatalogRate())),
		catalog.WithCache(config.CacheEnabled),
	)
}

// openApp connects the preference store and loads the wishlist.
func openApp(ctx context.Context) (*app, error) {
	kv, err := openStore(ctx, storeOptions())
	if err != nil {
		return nil, err
	}

	a := &app{
		kv:       kv,
		catalog:  newCatalogClient(),
		prefs:    prefs.NewStore(kv),
		wishlist: prefs.NewWishlist(kv),
	}
	a.session = browse.New(a.catalog, a.prefs, a.wishlist)

	if err := a.wishlist.Load(ctx); err != nil {
		return nil, errors.Join(err, kv.Close())
	}
	return a, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}
